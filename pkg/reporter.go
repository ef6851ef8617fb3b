package treeutils

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// DefaultReportInterval is how often the Reporter redraws
const DefaultReportInterval = 100 * time.Millisecond

// workerLineReserve is the columns kept free beside a worker's path
const workerLineReserve = 15

// Reporter draws live indexing progress on a terminal: one overall byte
// line followed by one line per hash worker. It also serves as the
// ErrorSink for the run so warnings are printed above the progress region
// instead of through it.
type Reporter struct {
	out      io.Writer
	width    int
	progress *Progress
	interval time.Duration

	mu      sync.Mutex
	drawn   int
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

// NewReporter creates a reporter for a terminal of the given width
func NewReporter(out io.Writer, width int, progress *Progress) *Reporter {
	return &Reporter{
		out:      out,
		width:    width,
		progress: progress,
		interval: DefaultReportInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins periodic redraws
func (r *Reporter) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.redraw()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts redraws, erases the worker lines and leaves a final summary
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stop)
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	fmt.Fprintln(r.out, r.summaryLine(r.progress.Snapshot()))
}

// Warn implements ErrorSink
func (r *Reporter) Warn(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	fmt.Fprintln(r.out, FormatWarning(path, err))
	if !r.stopped {
		r.drawLocked()
	}
}

// LogWriter returns a writer for whole log lines. Each write clears the
// progress region, prints the line and redraws, like Warn.
func (r *Reporter) LogWriter() io.Writer {
	return reporterLog{r}
}

type reporterLog struct {
	r *Reporter
}

func (l reporterLog) Write(p []byte) (int, error) {
	l.r.mu.Lock()
	defer l.r.mu.Unlock()
	l.r.clearLocked()
	n, err := l.r.out.Write(p)
	if !l.r.stopped {
		l.r.drawLocked()
	}
	return n, err
}

func (r *Reporter) redraw() {
	r.mu.Lock()
	r.clearLocked()
	r.drawLocked()
	n := r.drawn
	r.mu.Unlock()

	// Logged outside mu: the log output may be this reporter
	DebugLog(DebugProgress, "drew %d line(s)", n)
}

func (r *Reporter) clearLocked() {
	var b strings.Builder
	for i := 0; i < r.drawn; i++ {
		b.WriteString(ansi.CursorUp(1))
		b.WriteString(ansi.EraseEntireLine)
	}
	io.WriteString(r.out, b.String())
	r.drawn = 0
}

func (r *Reporter) drawLocked() {
	lines := r.Lines(r.progress.Snapshot())
	io.WriteString(r.out, strings.Join(lines, "\n")+"\n")
	r.drawn = len(lines)
}

// Lines renders the progress region for a snapshot
func (r *Reporter) Lines(s ProgressSnapshot) []string {
	lines := make([]string, 0, 1+len(s.Current))
	lines = append(lines, TruncateMiddle(r.summaryLine(s), r.width))

	pathWidth := r.width - workerLineReserve
	if pathWidth < 0 {
		pathWidth = 0
	}
	for _, cur := range s.Current {
		if cur == "" {
			lines = append(lines, "Idle")
			continue
		}
		lines = append(lines, "Processing "+TruncateMiddle(cur, pathWidth))
	}
	return lines
}

func (r *Reporter) summaryLine(s ProgressSnapshot) string {
	pct := 0.0
	if s.TotalBytes > 0 {
		pct = float64(s.DoneBytes) / float64(s.TotalBytes) * 100
	}
	discovering := ""
	if !s.WalkDone {
		discovering = ", discovering"
	}
	return fmt.Sprintf("%s / %s (%.1f%%) %d/%d files%s",
		humanize.IBytes(uint64(s.DoneBytes)), humanize.IBytes(uint64(s.TotalBytes)),
		pct, s.Processed, s.Discovered, discovering)
}
