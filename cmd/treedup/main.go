// Command treedup lists groups of files with identical content under a
// directory tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	treeutils "github.com/wilsonzlin/treeutils/pkg"
)

func newRootCmd() *cobra.Command {
	var (
		opts    commonOptions
		raw     bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "treedup ROOT_DIR",
		Short: "Find duplicate files by content",
		Long: `treedup hashes every file under ROOT_DIR and prints each group of files
that share identical content.

By default the first file of a group is shown in bold and the rest beneath
it. With --raw every file is printed as an absolute path on its own line
and groups are separated by a blank line, for use with other tools.`,
		Version:      treeutils.GetFullVersion(),
		Args:         exactRoots(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDup(cmd, &opts, args[0], raw, summary)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print plain groups: one absolute path per line, blank line between groups")
	cmd.Flags().BoolVar(&summary, "summary", false, "print group count and reclaimable bytes to stderr")

	return cmd
}

func runDup(cmd *cobra.Command, opts *commonOptions, rootArg string, raw, summary bool) error {
	root, err := treeutils.CanonicalizeRoot(rootArg)
	if err != nil {
		return err
	}

	cfg, err := opts.load()
	if err != nil {
		return err
	}
	sess, err := opts.session(cmd, cfg)
	if err != nil {
		return err
	}

	idx, err := sess.Index(root)
	if err != nil {
		return err
	}

	groups := treeutils.FindDuplicates(idx)
	err = treeutils.RenderDuplicates(cmd.OutOrStdout(), groups, treeutils.DupRenderOptions{
		Raw:   raw,
		Color: sess.ColorEnabled(),
	})
	if err != nil {
		return err
	}
	if summary {
		fmt.Fprintln(cmd.ErrOrStderr(), treeutils.DuplicateSummary(groups))
	}
	return nil
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
