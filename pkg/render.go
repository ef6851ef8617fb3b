package treeutils

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SGR sequences for the handful of styles the renderers use
const (
	sgrReset        = "\x1b[0m"
	sgrBold         = "\x1b[1m"
	sgrDim          = "\x1b[2m"
	sgrBrightRed    = "\x1b[91m"
	sgrBrightGreen  = "\x1b[92m"
	sgrBrightYellow = "\x1b[93m"
	sgrBrightBlue   = "\x1b[94m"
)

func styled(enabled bool, sgr, s string) string {
	if !enabled {
		return s
	}
	return sgr + s + sgrReset
}

func statusStyle(st FileStatus) string {
	switch st {
	case StatusChanged:
		return sgrBrightYellow
	case StatusCreated:
		return sgrBrightGreen
	case StatusDeleted:
		return sgrBrightRed
	default:
		return ""
	}
}

// DiffRenderer prints a DiffResult as an indented tree
type DiffRenderer struct {
	Out               io.Writer
	Color             bool
	RelativeCopyPaths bool // render copy hints relative to the annotated entry
	Header            bool // print "--- OLD" / "+++ NEW" first
}

// Render writes every reported entry. Directory components are printed once
// when first entered and indented two spaces per depth; leaves carry their
// status marker and copy hints.
func (r *DiffRenderer) Render(res *DiffResult) error {
	bw := bufio.NewWriter(r.Out)

	if r.Header {
		fmt.Fprintf(bw, "--- %s\n+++ %s\n", res.OldRoot, res.NewRoot)
	}

	var curDir RelPath
	for _, entry := range res.Entries() {
		path := entry.Path
		if len(path) == 0 {
			continue
		}

		curDir = append(RelPath(nil), CommonPrefix(curDir, path[:len(path)-1])...)
		for len(curDir) < len(path)-1 {
			comp := path[len(curDir)]
			fmt.Fprintf(bw, "%s%s\n", strings.Repeat("  ", len(curDir)), comp)
			curDir = append(curDir, comp)
		}

		fmt.Fprintf(bw, "%s%s\n", strings.Repeat("  ", len(path)-1), r.leaf(entry))
	}

	return bw.Flush()
}

func (r *DiffRenderer) leaf(entry DiffEntry) string {
	name := entry.Path[len(entry.Path)-1]
	msg := styled(r.Color, statusStyle(entry.Status), entry.Status.Marker()+" "+name)

	if entry.CopiedFrom != nil {
		msg += styled(r.Color, sgrDim, " <= "+r.hintPath(entry.Path, entry.CopiedFrom))
	}
	if len(entry.CopiedTo) > 0 {
		dests := make([]string, len(entry.CopiedTo))
		for i, to := range entry.CopiedTo {
			dests[i] = r.hintPath(entry.Path, to)
		}
		msg += styled(r.Color, sgrBold, " => "+strings.Join(dests, ", "))
	}
	return msg
}

func (r *DiffRenderer) hintPath(from, to RelPath) string {
	if r.RelativeCopyPaths {
		return RelativeTo(from, to).String()
	}
	return to.String()
}

// DupRenderOptions selects the duplicate listing format
type DupRenderOptions struct {
	Raw   bool
	Color bool
}

// RenderDuplicates prints duplicate groups. The decorated form prints the
// first member in bold and the rest on tree-branch lines; the raw form is
// one absolute path per line. Both end every group with a blank line, and
// both print "No duplicates found" when there are no groups.
func RenderDuplicates(w io.Writer, groups []DuplicateGroup, opts DupRenderOptions) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, styled(opts.Color && !opts.Raw, sgrBrightGreen, "No duplicates found"))
		return err
	}
	if opts.Raw {
		return WriteRawGroups(w, groups)
	}

	bw := bufio.NewWriter(w)

	for _, g := range groups {
		for i, f := range g.Files {
			quoted := strconv.Quote(f)
			switch {
			case i == 0:
				fmt.Fprintln(bw, styled(opts.Color, sgrBold, quoted))
			case i < len(g.Files)-1:
				fmt.Fprintln(bw, "├ "+styled(opts.Color, sgrBrightBlue, quoted))
			default:
				fmt.Fprintln(bw, "└ "+styled(opts.Color, sgrBrightBlue, quoted))
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
