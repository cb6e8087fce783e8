// Package mkmf extracts the compiler and linker flags from the gyp-generated makefiles
// of a Node.js checkout and assembles them into a small standalone Makefile which links
// an embedding host (node_main) against the node library.
package mkmf
