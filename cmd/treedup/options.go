package main

// The same flag set is declared in cmd/treediff/options.go so each binary
// stays self-contained.

import (
	"fmt"

	"github.com/spf13/cobra"
	treeutils "github.com/wilsonzlin/treeutils/pkg"
)

// commonOptions are the flags shared by every treeutils tool
type commonOptions struct {
	configPath string
	overrides  []string
	verbose    int
	debug      string
	color      string
	noProgress bool
	excludes   []string
}

func (o *commonOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "config file (default $TREEUTILS_CONFIG or ~/.config/treeutils/config)")
	flags.StringArrayVarP(&o.overrides, "option", "o", nil, "override a config value, as section.key:value")
	flags.CountVarP(&o.verbose, "verbose", "v", "increase verbosity (repeatable)")
	flags.StringVar(&o.debug, "debug", "", "comma-separated debug flags: walk, hash, index, diff, progress")
	flags.StringVar(&o.color, "color", "", "colorize output: auto, always or never")
	flags.BoolVar(&o.noProgress, "no-progress", false, "do not draw live progress")
	flags.StringArrayVar(&o.excludes, "exclude", nil, "skip paths matching a gitignore-style pattern (repeatable)")
}

// load reads the config file and folds flag values into it as overrides
func (o *commonOptions) load() (*treeutils.Config, error) {
	cfg, err := treeutils.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	overrides := append([]string(nil), o.overrides...)
	if o.verbose > 0 {
		overrides = append(overrides, fmt.Sprintf("verbose.level:%d", min(o.verbose, 3)))
	}
	if o.debug != "" {
		overrides = append(overrides, "verbose.debug:"+o.debug)
	}
	if o.color != "" {
		overrides = append(overrides, "output.color:"+o.color)
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *commonOptions) session(cmd *cobra.Command, cfg *treeutils.Config) (*treeutils.Session, error) {
	return treeutils.NewSession(cfg, treeutils.SessionOptions{
		NoProgress: o.noProgress,
		Excludes:   o.excludes,
		ErrOut:     cmd.ErrOrStderr(),
		Out:        cmd.OutOrStdout(),
	})
}

// exactRoots is cobra.ExactArgs with an error wrapping ErrWrongRootCount
func exactRoots(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: accepts %d arg(s), received %d", treeutils.ErrWrongRootCount, n, len(args))
		}
		return nil
	}
}
