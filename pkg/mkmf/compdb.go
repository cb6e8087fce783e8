package mkmf

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// CompileCommand is a single entry of a clang compilation database (compile_commands.json)
type CompileCommand struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Output    string   `json:"output"`
}

type compileRule struct {
	compiler string
	source   string
	object   string
	blocks   []string
}

// compileRules mirrors the compile rules in Trailer
var compileRules = []compileRule{
	{
		compiler: "c++",
		source:   "node.cc",
		object:   "node.o",
		blocks:   []string{"DEFS_Release", "INCS_Release", "CFLAGS_Release", "CFLAGS_CC_Release"},
	},
	{
		compiler: "cc",
		source:   "node_main.c",
		object:   "node_main.o",
		blocks:   []string{"CFLAGS_Release"},
	},
}

// MakeVars resolves the variables declared by Header for srcDir
func MakeVars(srcDir string) *strings.Replacer {
	builddir := srcDir + "/out/Release"
	return strings.NewReplacer(
		"$(srcdir)", srcDir,
		"$(builddir)", builddir,
		"$(obj)", builddir+"/obj",
	)
}

// CompileCommands builds the compilation database for the compile rules of the generated Makefile.
// dir is the directory the Makefile lives in.
func CompileCommands(srcDir, dir string, blocks []Block) ([]CompileCommand, error) {
	index := BlockMap(blocks)
	vars := MakeVars(srcDir)
	result := make([]CompileCommand, 0, len(compileRules))

	for _, rule := range compileRules {
		args := []string{rule.compiler}
		for _, name := range rule.blocks {
			block, ok := index[name]
			if !ok {
				return nil, eris.Wrapf(ErrBlockNotFound, "%s is needed for %s", name, rule.source)
			}

			flags, err := block.Flags()
			if err != nil {
				return nil, err
			}

			for _, flag := range flags {
				args = append(args, vars.Replace(flag))
			}
		}

		args = append(args, "-c", rule.source, "-o", rule.object)
		result = append(result, CompileCommand{
			Directory: dir,
			File:      filepath.Join(dir, rule.source),
			Arguments: args,
			Output:    filepath.Join(dir, rule.object),
		})
	}

	return result, nil
}
