// Package gitconfig implements a small pure Go reader and writer for git
// config files, tailored to reconciling a single per-user config. The
// original file is preserved as closely as possible when rewriting:
// comments, whitespace and section order all survive.
//
// Mutations are buffered in memory and persisted with a single atomic
// Flush (temp file plus rename), so a run either fully replaces the file
// or leaves it byte-identical to its previous state.
//
// The reference for the syntax handled here is
// https://mirrors.edge.kernel.org/pub/software/scm/git/docs/git-config.html.
// Includes, multivars and scope merging are intentionally not supported.
package gitconfig
