package mkmf

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStopsAtFirstBlankLine(t *testing.T) {
	block, err := Extract(libFixture, BlockRule{Name: "CFLAGS_Release", Source: LibMakefile})
	require.NoError(t, err)

	assert.Equal(t, "CFLAGS_Release", block.Name)
	assert.Equal(t, LibMakefile, block.Source)
	assert.Equal(t, "CFLAGS_Release := -O3 \\\n\t-pthread\n\n", block.Text)
}

func TestExtractKeepsMinimalBlockVerbatim(t *testing.T) {
	block, err := Extract(libFixture, Rules[0])
	require.NoError(t, err)
	assert.Equal(t, "DEFS_Release := -DFOO\n\n", block.Text)
}

func TestExtractUsesFirstOccurrence(t *testing.T) {
	text := "LIBS := -lfirst\n\nLIBS := -lsecond\n\n"
	block, err := Extract(text, BlockRule{Name: "LIBS"})
	require.NoError(t, err)
	assert.Equal(t, "LIBS := -lfirst\n\n", block.Text)
}

func TestExtractLineBreakRule(t *testing.T) {
	block, err := Extract(nodeFixture, BlockRule{Name: "LD_INPUTS", Source: NodeMakefile, Terminator: LineBreak})
	require.NoError(t, err)

	// only the rest of the line is copied, followed by a normalizing blank line
	assert.Equal(t, "LD_INPUTS := $(OBJS) $(obj).target/libnode.a\n\n", block.Text)
	assert.NotContains(t, block.Text, "TOOLSET")
}

func TestExtractLineBreakRuleIgnoresBlankLineTerminator(t *testing.T) {
	text := "LD_INPUTS := a \\\n\tb\n\n"
	block, err := Extract(text, BlockRule{Name: "LD_INPUTS", Terminator: LineBreak})
	require.NoError(t, err)
	assert.Equal(t, "LD_INPUTS := a \\\n\n", block.Text)
}

func TestExtractMissingBlock(t *testing.T) {
	_, err := Extract("TOOLSET := target\n\n", BlockRule{Name: "DEFS_Release", Source: LibMakefile})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBlockNotFound))
	assert.Contains(t, err.Error(), "DEFS_Release")
}

func TestExtractRequiresTerminator(t *testing.T) {
	_, err := Extract("DEFS_Release := -DFOO\n", BlockRule{Name: "DEFS_Release"})
	assert.True(t, eris.Is(err, ErrBlockNotFound))
}

func TestRulesOrder(t *testing.T) {
	names := make([]string, len(Rules))
	for idx, rule := range Rules {
		names[idx] = rule.Name
	}

	assert.Equal(t, []string{
		"DEFS_Release", "INCS_Release", "CFLAGS_Release", "CFLAGS_CC_Release",
		"LDFLAGS_Release", "LIBS", "LD_INPUTS",
	}, names)

	for _, rule := range Rules[:4] {
		assert.Equal(t, LibMakefile, rule.Source)
	}
	for _, rule := range Rules[4:] {
		assert.Equal(t, NodeMakefile, rule.Source)
	}
}

func TestExtractAll(t *testing.T) {
	fs := newCheckout(t, libFixture, nodeFixture)

	blocks, err := ExtractAll(context.Background(), fs, testSrcDir)
	require.NoError(t, err)
	require.Len(t, blocks, len(Rules))

	for idx, block := range blocks {
		assert.Equal(t, Rules[idx].Name, block.Name)
		assert.True(t, strings.HasPrefix(block.Text, block.Name), block.Name)
		assert.True(t, strings.HasSuffix(block.Text, "\n\n"), block.Name)
	}
}

func TestExtractAllMissingFile(t *testing.T) {
	fs := newCheckout(t, libFixture, "")

	_, err := ExtractAll(context.Background(), fs, testSrcDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), NodeMakefile)
}

func TestExtractAllCanceled(t *testing.T) {
	fs := newCheckout(t, libFixture, nodeFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractAll(ctx, fs, testSrcDir)
	assert.ErrorIs(t, err, context.Canceled)
}
