package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
	"github.com/glyphkit/opentype/shape"
)

// runRepl shapes one line of typed text per loop iteration against a
// single loaded font, grounded on the teacher otcli's readline-driven
// interactive loop.
func runRepl(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	fontPath := fs.String("font", "", "path to the font file")
	script := fs.String("script", "", "OpenType script tag override, e.g. 'arab'")
	lang := fs.String("lang", "", "OpenType language tag override, e.g. 'ENG '")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fontPath == "" {
		return fmt.Errorf("repl: -font is required")
	}
	otf, err := loadFont(*fontPath)
	if err != nil {
		return err
	}

	rl, err := readline.New("ot > ")
	if err != nil {
		return fmt.Errorf("starting REPL: %w", err)
	}
	defer rl.Close()

	pterm.Info.Println("Welcome to otshape. Type text to shape it; Ctrl-D to quit.")
	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF {
				tracer().Infof("repl: exiting on %s", err)
			}
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		shapeLine(otf, line, *script, *lang)
	}
	pterm.Info.Println("Goodbye!")
	return nil
}

func shapeLine(otf *ot.Font, line, script, lang string) {
	for _, run := range bidiRuns(line) {
		opts := shape.Options{Direction: run.direction}
		if script != "" {
			opts.Script = ot.T(script)
		}
		if lang != "" {
			opts.Language = ot.T(lang)
		}
		buf := buffer.New()
		for i, r := range []rune(run.text) {
			buf.AddCodepoint(r, uint32(i))
		}
		shape.Shape(otf, buf, opts)
		pterm.Printf("%q (%s):\n", run.text, directionName(run.direction))
		printBuffer(buf)
	}
}
