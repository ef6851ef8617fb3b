package treeutils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"github.com/google/vectorio"
)

// iovMax is Linux UIO_MAXIOV, the most iovecs a single writev accepts
const iovMax = 1024

// rawGroupLines renders groups as one absolute path per line with a blank
// line after each group
func rawGroupLines(groups []DuplicateGroup) [][]byte {
	var lines [][]byte
	for _, g := range groups {
		for _, f := range g.Files {
			lines = append(lines, []byte(f+"\n"))
		}
		lines = append(lines, []byte("\n"))
	}
	return lines
}

// WriteRawGroups writes duplicate groups in raw form. File targets get one
// writev per IOV_MAX lines; other writers are written line by line.
func WriteRawGroups(w io.Writer, groups []DuplicateGroup) error {
	lines := rawGroupLines(groups)
	if file, ok := w.(*os.File); ok {
		return writevLines(file, lines)
	}
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func writevLines(file *os.File, lines [][]byte) error {
	iovecs := make([]syscall.Iovec, len(lines))
	for i, line := range lines {
		iovecs[i].Base = &line[0]
		iovecs[i].SetLen(len(line))
	}

	for offset := 0; offset < len(lines); offset += iovMax {
		end := offset + iovMax
		if end > len(lines) {
			end = len(lines)
		}

		chunk := iovecs[offset:end]
		want := 0
		for _, line := range lines[offset:end] {
			want += len(line)
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return fmt.Errorf("failed to write duplicate groups with vectorio: %w", err)
		}
		if nw < want {
			if err := writeRemainder(file, lines[offset:end], nw); err != nil {
				return err
			}
		}
	}
	runtime.KeepAlive(lines)
	return nil
}

// writeRemainder finishes a short writev by skipping the bytes already written
func writeRemainder(w io.Writer, lines [][]byte, written int) error {
	for _, line := range lines {
		if written >= len(line) {
			written -= len(line)
			continue
		}
		if _, err := w.Write(line[written:]); err != nil {
			return fmt.Errorf("failed to finish short write: %w", err)
		}
		written = 0
	}
	return nil
}
