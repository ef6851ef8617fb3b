// Package treeutils identifies files by content across one or two directory
// trees. It provides the indexing pipeline shared by the treediff and
// treedup tools, the diff engine with copy and rename hints, the duplicate
// finder and their terminal renderers.
//
// # Indexing
//
// A single pass walks every root concurrently and hashes each regular file
// on a fixed pool of workers:
//
//	builder, err := treeutils.NewIndexBuilder(treeutils.BuildOptions{})
//	idx, err := builder.Build("/data/old", "/data/new")
//
// The returned ContentIndex is frozen and maps each digest to the absolute
// paths holding that content.
//
// # Diffing
//
//	res, err := treeutils.Diff(idx, "/data/old", "/data/new", treeutils.DiffOptions{})
//	for _, e := range res.Entries() {
//		fmt.Println(e.Status, e.Path)
//	}
//
// # Duplicates
//
//	groups := treeutils.FindDuplicates(idx)
//
// # Configuration
//
// Config reads an optional INI file (see DefaultConfigPath). Session wires a
// Config into an indexing pass with live progress on a terminal:
//
//	cfg, err := treeutils.LoadConfig("")
//	sess, err := treeutils.NewSession(cfg, treeutils.SessionOptions{})
//	idx, err := sess.Index(root)
//
// Enable debug output:
//
//	treeutils.SetDebugFlags("walk,hash")
//	treeutils.SetVerboseLevel(2)
package treeutils
