package mkmf

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// ErrNoHome is returned when no source directory was passed and $HOME is unset.
var ErrNoHome = eris.New("HOME is not set")

// Trailer contains the rules appended after the copied variables. The variables are referenced
// with make syntax and resolved by make once the generated Makefile runs.
const Trailer = "node_main: node_main.o node.o\n" +
	"\tc++ $(LDFLAGS_Release) -o $@ $+ $(LIBS) $(LD_INPUTS)\n\n" +
	"node.o: node.cc node_embed.h\n" +
	"\tc++ $(DEFS_Release) $(INCS_Release) $(CFLAGS_Release) \\\n" +
	"\t$(CFLAGS_CC_Release) -c $< -o $@\n\n" +
	"node_main.o: node_main.c node_embed.h\n" +
	"\tcc $(CFLAGS_Release) -c $< -o $@\n\n" +
	"test: node_main\n" +
	"\ttest \"$$(./node_main)\" = \"2\"\n\n" +
	"clean:\n" +
	"\trm -f " + cleanTargets + "\n"

const cleanTargets = "node_main node_main.o node.o"

// Artifacts lists the files removed by the clean rule
func Artifacts() []string {
	return strings.Fields(cleanTargets)
}

// DefaultSrcDir returns the checkout location used when none was configured: $HOME/git/node
func DefaultSrcDir(getenv func(string) string) (string, error) {
	home := getenv("HOME")
	if home == "" {
		return "", ErrNoHome
	}

	return filepath.Join(home, "git", "node"), nil
}

// Header declares srcdir, builddir and obj for the rest of the Makefile.
func Header(srcDir string) string {
	return "srcdir := " + srcDir + "\n" +
		"builddir := $(srcdir)/out/Release\n" +
		"obj := $(builddir)/obj\n" +
		"\n"
}

// Assemble concatenates the header, the passed blocks (in the passed order) and the Trailer.
func Assemble(srcDir string, blocks []Block) string {
	var out strings.Builder
	out.WriteString(Header(srcDir))

	for _, block := range blocks {
		out.WriteString(block.Text)
	}

	out.WriteString(Trailer)
	return out.String()
}

// Render builds the complete Makefile for the checkout at srcDir in memory.
func Render(ctx context.Context, fs afero.Fs, srcDir string) (string, error) {
	blocks, err := ExtractAll(ctx, fs, srcDir)
	if err != nil {
		return "", err
	}

	return Assemble(srcDir, blocks), nil
}
