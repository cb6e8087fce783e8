package mkmf

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// DefaultOutput is written to the current working directory
const DefaultOutput = "Makefile"

// ErrStale is returned by Check if the existing Makefile doesn't match the generated one.
var ErrStale = eris.New("Makefile is out of date")

// Options controls where Generate and Check read from and write to
type Options struct {
	SrcDir string
	Output string
}

func (o Options) output() string {
	if o.Output == "" {
		return DefaultOutput
	}
	return o.Output
}

// Generate renders the Makefile for opts.SrcDir and replaces opts.Output with it.
// Nothing is written unless every block was found.
func Generate(ctx context.Context, fs afero.Fs, opts Options) error {
	content, err := Render(ctx, fs, opts.SrcDir)
	if err != nil {
		return err
	}

	dest := opts.output()
	err = WriteFile(fs, dest, []byte(content), 0644)
	if err != nil {
		return err
	}

	log(ctx).Info().Str("path", dest).Int("size", len(content)).Msgf("Wrote %s", dest)
	return nil
}

// Check renders the Makefile for opts.SrcDir and compares it with opts.Output. If they differ,
// a unified diff from the existing file to the new content is returned together with ErrStale.
func Check(ctx context.Context, fs afero.Fs, opts Options) (string, error) {
	content, err := Render(ctx, fs, opts.SrcDir)
	if err != nil {
		return "", err
	}

	dest := opts.output()
	existing, err := afero.ReadFile(fs, dest)
	if err != nil && !eris.Is(err, os.ErrNotExist) {
		return "", eris.Wrapf(err, "failed to read %s", dest)
	}

	if string(existing) == content {
		log(ctx).Info().Str("path", dest).Msgf("%s is up to date", dest)
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(content),
		FromFile: dest,
		ToFile:   dest + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", eris.Wrap(err, "failed to build diff")
	}

	return diff, eris.Wrapf(ErrStale, "%s differs from the generated content", dest)
}

// WriteFile writes data to a temporary file next to path and renames it over path once
// everything has been written. An existing file keeps its permissions, perm only applies to
// new files.
func WriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	info, err := fs.Stat(path)
	if err == nil {
		perm = info.Mode().Perm()
	} else if !eris.Is(err, os.ErrNotExist) {
		return eris.Wrapf(err, "failed to stat %s", path)
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return eris.Wrapf(err, "failed to create temporary file in %s", dir)
	}

	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}

	if err == nil {
		err = fs.Chmod(tmpName, perm)
	}

	if err == nil {
		err = fs.Rename(tmpName, path)
	}

	if err != nil {
		fs.Remove(tmpName)
		return eris.Wrapf(err, "failed to write %s", path)
	}

	return nil
}
