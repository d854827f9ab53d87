package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/pterm/pterm"

	"github.com/glyphkit/opentype"
	"github.com/glyphkit/opentype/ot"
)

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fontPath := fs.String("font", "", "path to the font file")
	sample := fs.Bool("sample", false, "dump a font picked from the go-text/typesetting-utils embedded corpus instead of -font")
	verify := fs.Bool("verify", false, "cross-check against the golang.org/x/image/font/sfnt reference reader")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fontPath == "" && !*sample {
		return fmt.Errorf("dump: -font or -sample is required")
	}

	var otf *ot.Font
	var err error
	if *sample {
		var picked string
		otf, picked, err = loadSampleFont()
		if err != nil {
			return err
		}
		pterm.Info.Printf("dumping sample font %s\n", picked)
	} else {
		otf, err = loadFont(*fontPath)
		if err != nil {
			return err
		}
	}

	pterm.DefaultSection.Println("Tables")
	printTableList(otf)

	pterm.DefaultSection.Println("Layout")
	printLayoutSummary(otf)

	if *verify {
		if *sample {
			pterm.Info.Println("reference check skipped: -sample has no file path to re-read")
		} else {
			pterm.DefaultSection.Println("Reference check")
			verifyAgainstReference(*fontPath)
		}
	}

	return nil
}

// verifyAgainstReference loads fontPath a second time through the
// independent x/image/font/sfnt reader and reports whether it agrees
// this is a valid font. A parse failure here does not fail the dump —
// it means the two parsers disagree, which is exactly what this check
// exists to surface.
func verifyAgainstReference(fontPath string) {
	ref, err := opentype.LoadReferenceFont(fontPath)
	if err != nil {
		pterm.Warning.Printf("reference reader rejected this file: %s\n", err)
		return
	}
	if ref.Name == "" {
		pterm.Info.Println("reference reader parsed the font but found no full name")
		return
	}
	pterm.Success.Printf("reference reader agrees: %q\n", ref.Name)
}

func printTableList(otf *ot.Font) {
	tags := otf.TableTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	data := [][]string{{"Tag", "Decoded"}}
	for _, tag := range tags {
		data = append(data, []string{tag.String(), decodedMarker(otf, tag)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("units per em: %d, glyphs: %d\n", otf.UnitsPerEm(), otf.NumGlyphs())
}

func decodedMarker(otf *ot.Font, tag ot.Tag) string {
	switch tag.String() {
	case "head", "maxp", "cmap", "hhea", "hmtx":
		return "yes (required)"
	case "vhea":
		if otf.VHea != nil {
			return "yes"
		}
	case "vmtx":
		if otf.VMtx != nil {
			return "yes"
		}
	case "post":
		if otf.Post != nil {
			return "yes"
		}
	case "gasp":
		if otf.Gasp != nil {
			return "yes"
		}
	case "GDEF":
		if otf.GDef != nil {
			return "yes"
		}
	case "GSUB":
		if otf.GSub != nil {
			return "yes"
		}
	case "GPOS":
		if otf.GPos != nil {
			return "yes"
		}
	case "morx":
		if otf.Morx != nil {
			return "yes"
		}
	case "BASE":
		if otf.Base != nil {
			return "yes"
		}
	case "MATH":
		if otf.Math != nil {
			return "yes"
		}
	case "kern":
		if otf.Kern != nil {
			return "yes"
		}
	}
	return "no"
}

func printLayoutSummary(otf *ot.Font) {
	data := [][]string{{"Table", "Scripts", "Features", "Lookups"}}
	if otf.GSub != nil {
		data = append(data, layoutRow("GSUB", otf.GSub.ScriptList, otf.GSub.FeatureList, otf.GSub.LookupList))
	}
	if otf.GPos != nil {
		data = append(data, layoutRow("GPOS", otf.GPos.ScriptList, otf.GPos.FeatureList, otf.GPos.LookupList))
	}
	if len(data) == 1 {
		pterm.Println("no GSUB/GPOS table present")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if otf.Morx != nil {
		pterm.Printf("morx: %d chain(s)\n", len(otf.Morx.Chains))
	}
	if otf.Kern != nil {
		pterm.Println("kern: legacy table present (format 0/2 fallback)")
	}
}

func layoutRow(name string, scripts *ot.ScriptList, features *ot.FeatureList, lookups *ot.LookupList) []string {
	nScripts, nFeatures, nLookups := 0, 0, 0
	if scripts != nil {
		nScripts = len(scripts.Scripts)
	}
	if features != nil {
		nFeatures = len(features.Features)
	}
	if lookups != nil {
		nLookups = len(lookups.Lookups)
	}
	return []string{name, fmt.Sprintf("%d", nScripts), fmt.Sprintf("%d", nFeatures), fmt.Sprintf("%d", nLookups)}
}
