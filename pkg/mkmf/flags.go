package mkmf

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rotisserie/eris"
)

// Value returns the right hand side of the block's assignment with line continuations folded.
func (b Block) Value() string {
	value := strings.TrimPrefix(b.Text, b.Name)
	if pos := strings.Index(value, ":="); pos > -1 {
		value = value[pos+2:]
	} else if pos := strings.Index(value, "="); pos > -1 {
		value = value[pos+1:]
	}

	value = strings.ReplaceAll(value, "\\\r\n", " ")
	value = strings.ReplaceAll(value, "\\\n", " ")
	return strings.TrimSpace(value)
}

// Flags splits the block's value into individual arguments following shell quoting rules.
// gyp quotes values that contain special characters, i.e. '-DNODE_ARCH="x64"'.
func (b Block) Flags() ([]string, error) {
	flags, err := shellquote.Split(b.Value())
	if err != nil {
		return nil, eris.Wrapf(err, "failed to split the value of %s", b.Name)
	}

	return flags, nil
}

// BlockMap indexes blocks by name
func BlockMap(blocks []Block) map[string]Block {
	result := make(map[string]Block, len(blocks))
	for _, block := range blocks {
		result[block.Name] = block
	}
	return result
}
