package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/bidi"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
	"github.com/glyphkit/opentype/shape"
	"github.com/glyphkit/opentype/shapeplan"
)

func runShape(args []string) error {
	fs := flag.NewFlagSet("shape", flag.ExitOnError)
	fontPath := fs.String("font", "", "path to the font file")
	text := fs.String("text", "", "text to shape")
	script := fs.String("script", "", "OpenType script tag override, e.g. 'arab' (default: guessed per run)")
	lang := fs.String("lang", "", "OpenType language tag override, e.g. 'ENG '")
	features := fs.String("features", "", "comma-separated feature list, e.g. 'liga=1,kern=0'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fontPath == "" || *text == "" {
		return fmt.Errorf("shape: -font and -text are required")
	}
	otf, err := loadFont(*fontPath)
	if err != nil {
		return err
	}
	feats, err := parseFeatures(*features)
	if err != nil {
		return err
	}

	for _, run := range bidiRuns(*text) {
		opts := shape.Options{
			Direction: run.direction,
			Features:  feats,
		}
		if *script != "" {
			opts.Script = ot.T(*script)
		}
		if *lang != "" {
			opts.Language = ot.T(*lang)
		}
		buf := buffer.New()
		for i, r := range []rune(run.text) {
			buf.AddCodepoint(r, uint32(i))
		}
		shape.Shape(otf, buf, opts)
		pterm.Printf("run %q (direction=%s):\n", run.text, directionName(run.direction))
		printBuffer(buf)
	}
	return nil
}

type directedRun struct {
	text      string
	direction buffer.Direction
}

// bidiRuns splits text into paragraph-level directional runs using
// golang.org/x/text/unicode/bidi, letting the CLI exercise spec.md
// §4.11 step 9's RTL reversal against genuinely mixed-direction input
// instead of only a caller-declared direction.
func bidiRuns(text string) []directedRun {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return []directedRun{{text: text, direction: buffer.LTR}}
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return []directedRun{{text: text, direction: buffer.LTR}}
	}
	runs := make([]directedRun, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		dir := buffer.LTR
		if run.Direction() == bidi.RightToLeft {
			dir = buffer.RTL
		}
		runs = append(runs, directedRun{text: run.String(), direction: dir})
	}
	return runs
}

func directionName(d buffer.Direction) string {
	switch d {
	case buffer.RTL:
		return "RTL"
	case buffer.TTB:
		return "TTB"
	case buffer.BTT:
		return "BTT"
	default:
		return "LTR"
	}
}

func parseFeatures(spec string) ([]shapeplan.Feature, error) {
	if spec == "" {
		return nil, nil
	}
	var feats []shapeplan.Feature
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, valStr, ok := strings.Cut(part, "=")
		value := uint32(1)
		if ok {
			v, err := strconv.ParseUint(valStr, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid feature value %q: %w", part, err)
			}
			value = uint32(v)
		}
		feats = append(feats, shapeplan.Feature{Tag: ot.T(tag), Value: value, End: ^uint32(0)})
	}
	return feats, nil
}

func printBuffer(buf *buffer.Buffer) {
	data := [][]string{{"#", "Glyph", "Cluster", "XAdv", "YAdv", "XOff", "YOff"}}
	for i := range buf.Info {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", buf.Info[i].GlyphID),
			fmt.Sprintf("%d", buf.Info[i].Cluster),
			fmt.Sprintf("%d", buf.Pos[i].XAdvance),
			fmt.Sprintf("%d", buf.Pos[i].YAdvance),
			fmt.Sprintf("%d", buf.Pos[i].XOffset),
			fmt.Sprintf("%d", buf.Pos[i].YOffset),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
