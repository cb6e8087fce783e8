package mkmf

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testSrcDir = "/src/node"

const libFixture = `# This file is generated by gyp; do not edit.

TOOLSET := target
TARGET := node_lib
DEFS_Debug := \
	'-DDEBUG'

DEFS_Release := -DFOO

# Flags passed to all source files.
CFLAGS_Release := -O3 \
	-pthread

# Flags passed to only C files.
CFLAGS_C_Release :=

# Flags passed to only C++ files.
CFLAGS_CC_Release := -fno-rtti \
	-std=gnu++17

INCS_Release := \
	-I$(srcdir)/src \
	-I$(obj)/gen

OBJS := \
	$(obj).target/$(TARGET)/src/node.o

`

const nodeFixture = `TOOLSET := target
TARGET := node
LDFLAGS_Release := \
	-pthread \
	-rdynamic

LIBS := \
	-ldl \
	-lrt

$(builddir)/node: GYP_LDFLAGS := $(LDFLAGS_$(BUILDTYPE))
$(builddir)/node: LIBS := $(LIBS)
$(builddir)/node: LD_INPUTS := $(OBJS) $(obj).target/libnode.a
$(builddir)/node: TOOLSET := $(TOOLSET)

`

const expectedMakefile = "srcdir := /src/node\n" +
	"builddir := $(srcdir)/out/Release\n" +
	"obj := $(builddir)/obj\n" +
	"\n" +
	"DEFS_Release := -DFOO\n\n" +
	"INCS_Release := \\\n\t-I$(srcdir)/src \\\n\t-I$(obj)/gen\n\n" +
	"CFLAGS_Release := -O3 \\\n\t-pthread\n\n" +
	"CFLAGS_CC_Release := -fno-rtti \\\n\t-std=gnu++17\n\n" +
	"LDFLAGS_Release := \\\n\t-pthread \\\n\t-rdynamic\n\n" +
	"LIBS := \\\n\t-ldl \\\n\t-lrt\n\n" +
	"LD_INPUTS := $(OBJS) $(obj).target/libnode.a\n\n" +
	"node_main: node_main.o node.o\n" +
	"\tc++ $(LDFLAGS_Release) -o $@ $+ $(LIBS) $(LD_INPUTS)\n\n" +
	"node.o: node.cc node_embed.h\n" +
	"\tc++ $(DEFS_Release) $(INCS_Release) $(CFLAGS_Release) \\\n" +
	"\t$(CFLAGS_CC_Release) -c $< -o $@\n\n" +
	"node_main.o: node_main.c node_embed.h\n" +
	"\tcc $(CFLAGS_Release) -c $< -o $@\n\n" +
	"test: node_main\n" +
	"\ttest \"$$(./node_main)\" = \"2\"\n\n" +
	"clean:\n" +
	"\trm -f node_main node_main.o node.o\n"

func newCheckout(t *testing.T, lib, node string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	outDir := OutDir(testSrcDir)
	require.NoError(t, fs.MkdirAll(outDir, 0755))
	if lib != "" {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(outDir, LibMakefile), []byte(lib), 0644))
	}
	if node != "" {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(outDir, NodeMakefile), []byte(node), 0644))
	}

	return fs
}
