// Package workspace locates the repository root and derives the fixed paths doctool reads
// and writes beneath it.
//
// The root is taken from an explicit path when one is given, otherwise from the enclosing git
// work tree, otherwise from the nearest ancestor holding a Doxyfile or mkdocs.yml.
package workspace
