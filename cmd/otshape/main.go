// Command otshape is a small CLI around the opentype module: dump a font's
// table summary, shape a literal string, or drive an interactive shaping
// REPL. Grounded on the teacher project's otcli entry point (flag-driven
// font loading, schuko tracing setup, pterm for display), generalized to
// the table/plan/buffer shapes this module actually has.
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/glyphkit/opentype/ot"
)

func tracer() tracing.Trace {
	return tracing.Select("opentype.otshape")
}

func main() {
	setupTracing()
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{Text: " !  ", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: " Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "shape":
		err = runShape(os.Args[2:])
	case "repl":
		err = runRepl(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: otshape <dump|shape|repl> -font FILE [options]")
	fmt.Fprintln(os.Stderr, "       otshape dump -font FILE -verify   (cross-check against the x/image reference reader)")
	fmt.Fprintln(os.Stderr, "       otshape dump -sample              (dump a font from the embedded typesetting-utils corpus)")
}

func setupTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.opentype.otshape": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func loadFont(path string) (*ot.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}
	f, err := ot.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	for _, w := range f.Warnings() {
		tracer().Infof("warning: table %s: %s", w.Table, w.Issue)
	}
	for _, e := range f.Errors() {
		tracer().Infof("non-fatal error: table %s: %s: %s", e.Table, e.Section, e.Issue)
	}
	return f, nil
}
