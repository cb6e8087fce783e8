package mkmf

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

const (
	// LibMakefile contains the compiler flags used to build the node library
	LibMakefile = "node_lib.target.mk"
	// NodeMakefile contains the linker flags used to link the node binary
	NodeMakefile = "node.target.mk"
)

// ErrBlockNotFound is returned when a generated makefile lacks one of the expected variables.
var ErrBlockNotFound = eris.New("block not found")

// Terminator decides where a block ends
type Terminator int

const (
	// BlankLine blocks end with the first empty line after the block name
	BlankLine Terminator = iota
	// LineBreak blocks end with the first line break after the block name
	LineBreak
)

// BlockRule describes a variable that has to be copied from one of the generated makefiles
type BlockRule struct {
	Name       string
	Source     string
	Terminator Terminator
}

// Block is the verbatim text of a variable assignment taken from a generated makefile
type Block struct {
	Name   string
	Source string
	Text   string
}

// Rules lists all blocks in the order they appear in the generated Makefile.
var Rules = []BlockRule{
	{Name: "DEFS_Release", Source: LibMakefile},
	{Name: "INCS_Release", Source: LibMakefile},
	{Name: "CFLAGS_Release", Source: LibMakefile},
	{Name: "CFLAGS_CC_Release", Source: LibMakefile},
	{Name: "LDFLAGS_Release", Source: NodeMakefile},
	{Name: "LIBS", Source: NodeMakefile},
	{Name: "LD_INPUTS", Source: NodeMakefile, Terminator: LineBreak},
}

func (r BlockRule) pattern() *regexp.Regexp {
	if r.Terminator == LineBreak {
		return regexp.MustCompile(regexp.QuoteMeta(r.Name) + `.*?\n`)
	}

	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(r.Name) + `.*?\n\n`)
}

// Extract copies the block described by rule out of text. Blocks which only run up to the
// next line break are followed by an additional empty line to keep the spacing consistent.
func Extract(text string, rule BlockRule) (Block, error) {
	match := rule.pattern().FindString(text)
	if match == "" {
		return Block{}, eris.Wrapf(ErrBlockNotFound, "%s is missing from %s", rule.Name, rule.Source)
	}

	if rule.Terminator == LineBreak {
		match += "\n"
	}

	return Block{
		Name:   rule.Name,
		Source: rule.Source,
		Text:   match,
	}, nil
}

// OutDir returns the directory containing the generated makefiles
func OutDir(srcDir string) string {
	return filepath.Join(srcDir, "out")
}

// ExtractAll reads both generated makefiles below srcDir and extracts every block listed in Rules.
// Each makefile is read once, right before its first block is needed.
func ExtractAll(ctx context.Context, fs afero.Fs, srcDir string) ([]Block, error) {
	result := make([]Block, 0, len(Rules))
	source := ""
	text := ""

	for _, rule := range Rules {
		if rule.Source != source {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			path := filepath.Join(OutDir(srcDir), rule.Source)
			log(ctx).Info().Str("path", path).Msgf("Reading %s", path)

			data, err := afero.ReadFile(fs, path)
			if err != nil {
				return nil, eris.Wrapf(err, "failed to read %s", path)
			}

			source = rule.Source
			text = string(data)
		}

		block, err := Extract(text, rule)
		if err != nil {
			return nil, err
		}

		log(ctx).Debug().Str("block", block.Name).Int("size", len(block.Text)).Msgf("Extracted %s", block.Name)
		result = append(result, block)
	}

	return result, nil
}
