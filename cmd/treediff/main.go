// Command treediff compares two directory trees by content, reporting
// created, deleted and changed files with copy and rename hints.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	treeutils "github.com/wilsonzlin/treeutils/pkg"
)

func newRootCmd() *cobra.Command {
	var (
		opts              commonOptions
		relativeCopyPaths bool
		copyMatch         string
		header            bool
	)

	cmd := &cobra.Command{
		Use:   "treediff OLD_DIR NEW_DIR",
		Short: "Diff two directory trees by file content",
		Long: `treediff hashes every file under OLD_DIR and NEW_DIR and prints the paths
whose content was created, deleted or changed, as an indented tree.

Files that share content across the two trees are annotated: "<= path" names
the old file a new file was copied or renamed from, "=> path, ..." lists the
new files an old file was copied to.

OLD_DIR and NEW_DIR must not contain one another.`,
		Version:      treeutils.GetFullVersion(),
		Args:         exactRoots(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if copyMatch != "" {
				opts.overrides = append(opts.overrides, "diff.copy_match:"+copyMatch)
			}
			if cmd.Flags().Changed("relative-copy-paths") {
				opts.overrides = append(opts.overrides, "diff.relative_copy_paths:"+boolString(relativeCopyPaths))
			}
			return runDiff(cmd, &opts, args[0], args[1], header)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&relativeCopyPaths, "relative-copy-paths", false, "render copy hints relative to the annotated file")
	cmd.Flags().StringVar(&copyMatch, "copy-match", "", "which old path a copy is attributed to: farthest or closest")
	cmd.Flags().BoolVar(&header, "header", false, "print --- OLD_DIR / +++ NEW_DIR before the entries")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *commonOptions, oldArg, newArg string, header bool) error {
	oldRoot, err := treeutils.CanonicalizeRoot(oldArg)
	if err != nil {
		return err
	}
	newRoot, err := treeutils.CanonicalizeRoot(newArg)
	if err != nil {
		return err
	}
	if err := treeutils.CheckDisjoint(oldRoot, newRoot); err != nil {
		return err
	}

	cfg, err := opts.load()
	if err != nil {
		return err
	}
	diffCfg := cfg.GetDiffConfig()
	match, err := treeutils.ParseCopyMatch(diffCfg.CopyMatch)
	if err != nil {
		return err
	}

	sess, err := opts.session(cmd, cfg)
	if err != nil {
		return err
	}

	idx, err := sess.Index(oldRoot, newRoot)
	if err != nil {
		return err
	}

	res, err := treeutils.Diff(idx, oldRoot, newRoot, treeutils.DiffOptions{CopyMatch: match})
	if err != nil {
		return err
	}

	renderer := &treeutils.DiffRenderer{
		Out:               cmd.OutOrStdout(),
		Color:             sess.ColorEnabled(),
		RelativeCopyPaths: diffCfg.RelativeCopyPaths,
		Header:            header,
	}
	return renderer.Render(res)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
