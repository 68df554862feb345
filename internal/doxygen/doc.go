// Package doxygen turns the repository's Doxyfile template into a config doxygen can run.
//
// The template carries @TOKEN@ placeholders (the CMake configure_file convention) for project
// metadata and paths. Render replaces them literally and points OUTPUT_DIRECTORY at the build
// output directory; Prepare does the same against the files on disk.
package doxygen
