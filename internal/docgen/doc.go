// Package docgen runs the documentation steps in order: Doxygen for the source docs, then
// MkDocs for the user docs, optionally followed by the MkDocs preview server.
package docgen
