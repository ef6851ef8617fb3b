package treeutils

import "errors"

// Sentinel errors for package treeutils.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Root errors
	ErrRootNotDirectory = errors.New("root is not a directory")
	ErrOverlappingRoots = errors.New("old and new directories overlap")
	ErrWrongRootCount   = errors.New("wrong number of roots")

	// Index errors
	ErrIndexFrozen     = errors.New("content index is frozen")
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")

	// Diff errors
	ErrStatusConflict = errors.New("conflicting status for path")

	// Terminal errors
	ErrTerminalGeometry = errors.New("unable to determine terminal width")
)
