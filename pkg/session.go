package treeutils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// SessionOptions carries command-line choices that sit on top of Config
type SessionOptions struct {
	NoProgress bool     // force the progress display off
	Excludes   []string // extra patterns appended to walk.exclude
	ErrOut     io.Writer
	Out        io.Writer
}

// Session turns a Config into a ready-to-run indexing pass with its
// progress display and warning sink, and answers presentation questions
// that depend on the terminal.
type Session struct {
	cfg       *Config
	opts      SessionOptions
	algorithm *HashAlgorithm
	bufSize   int
	excluder  *Excluder
	progress  bool
	width     int
}

// NewSession validates configuration, applies logging settings and
// resolves the progress display. It fails with ErrTerminalGeometry when
// progress is wanted but the terminal size cannot be read.
func NewSession(cfg *Config, opts SessionOptions) (*Session, error) {
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	all := cfg.GetAllConfig()
	SetVerboseLevel(all.Verbose.Level)
	SetDebugFlags(all.Verbose.Debug)

	alg, err := GetHashAlgorithm(all.Hash.Algorithm)
	if err != nil {
		return nil, err
	}
	bufSize, err := ParseHumanSize(all.Hash.Buffer)
	if err != nil {
		return nil, fmt.Errorf("invalid hash buffer: %w", err)
	}

	patterns := append([]string(nil), all.Walk.Exclude...)
	if all.Walk.ExcludeFile != "" {
		lines, err := LoadExcludeFile(all.Walk.ExcludeFile)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, lines...)
	}
	patterns = append(patterns, opts.Excludes...)

	s := &Session{
		cfg:       cfg,
		opts:      opts,
		algorithm: alg,
		bufSize:   bufSize,
		excluder:  NewExcluder(patterns...),
	}

	if err := s.resolveProgress(strings.ToLower(all.Output.Progress)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) resolveProgress(mode string) error {
	if s.opts.NoProgress || mode == "never" {
		return nil
	}

	file, isFile := s.opts.ErrOut.(*os.File)
	if mode == "auto" && (!isFile || !IsTerminal(int(file.Fd()))) {
		return nil
	}
	if !isFile {
		return fmt.Errorf("%w: progress output is not a terminal", ErrTerminalGeometry)
	}

	width, err := TerminalWidth(int(file.Fd()))
	if err != nil {
		return err
	}
	s.progress = true
	s.width = width
	return nil
}

// ProgressEnabled reports whether Index will draw live progress
func (s *Session) ProgressEnabled() bool {
	return s.progress
}

// Algorithm returns the resolved digest algorithm
func (s *Session) Algorithm() *HashAlgorithm {
	return s.algorithm
}

// Config returns the underlying configuration
func (s *Session) Config() *Config {
	return s.cfg
}

// ColorEnabled applies output.color to the session's standard output
func (s *Session) ColorEnabled() bool {
	switch strings.ToLower(s.cfg.GetOutputConfig().Color) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := s.opts.Out.(*os.File)
	return ok && IsTerminal(int(file.Fd()))
}

// Index builds one frozen ContentIndex over the given canonical roots
func (s *Session) Index(roots ...string) (*ContentIndex, error) {
	perf := s.cfg.GetPerformanceConfig()
	opts := BuildOptions{
		Algorithm:    s.algorithm,
		BufferSize:   s.bufSize,
		Workers:      perf.HashWorkers,
		QueueDepth:   perf.QueueDepth,
		IncludeEmpty: s.cfg.GetWalkConfig().IncludeEmpty,
		Excluder:     s.excluder,
	}

	if !s.progress {
		opts.Sink = &WriterSink{Out: s.opts.ErrOut}
		builder, err := NewIndexBuilder(opts)
		if err != nil {
			return nil, err
		}
		return builder.Build(roots...)
	}

	// The reporter needs the builder's counters and the builder needs the
	// reporter as its sink, so the sink is attached through a forwarder.
	fwd := &sinkForwarder{}
	opts.Sink = fwd
	builder, err := NewIndexBuilder(opts)
	if err != nil {
		return nil, err
	}
	reporter := NewReporter(s.opts.ErrOut, s.width, builder.Progress())
	fwd.target = reporter

	reporter.Start()
	prevLog := SetLogOutput(reporter.LogWriter())
	idx, err := builder.Build(roots...)
	SetLogOutput(prevLog)
	reporter.Stop()
	return idx, err
}

type sinkForwarder struct {
	target ErrorSink
}

func (f *sinkForwarder) Warn(path string, err error) {
	f.target.Warn(path, err)
}
