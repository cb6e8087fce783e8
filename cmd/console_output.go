package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ConsoleWriter renders zerolog's JSON events as short coloured lines
type ConsoleWriter struct {
	out    io.Writer
	colors colorstring.Colorize
	debug  bool
	buffer strings.Builder
	lock   sync.Mutex
}

// NewConsoleWriter returns a writer for out. Colour codes are stripped if colored is false and
// debug appends every field of an event.
func NewConsoleWriter(out io.Writer, colored, debug bool) *ConsoleWriter {
	return &ConsoleWriter{
		out:   out,
		debug: debug,
		colors: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !colored,
			Reset:   true,
		},
	}
}

// debugErrors enables eris stack traces in logged errors
var debugErrors bool

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal":
		fallthrough
	case "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	case "debug":
		fallthrough
	case "trace":
		w.buffer.WriteString("[blue]")
	default:
		w.buffer.WriteString("[green]")
	}

	if block, ok := evt["block"].(string); ok {
		w.buffer.WriteString(block + ": ")
	}

	if evt["level"] == "error" || evt["level"] == "fatal" {
		w.buffer.WriteString("Error: ")
	}

	msg, _ := evt["message"].(string)

	path, ok := evt["path"].(string)
	if ok {
		msg = strings.ReplaceAll(msg, path, simplifyPath(path))
	}

	w.buffer.WriteString(msg)

	errorDetails, ok := evt["error"].(string)
	if ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errorDetails)
	}

	if w.debug {
		w.buffer.WriteString("\n")
		for name, value := range evt {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, value))
		}
	}

	w.buffer.WriteString("[reset]\n")
	_, err = io.WriteString(w.out, w.colors.Color(w.buffer.String()))
	return len(p), err
}

// simplifyPath returns path relative to the working directory if it lies below it
func simplifyPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(wd, path)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return path
	}

	return relPath
}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, debugErrors)
	}
}
