package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	fixtures "github.com/go-text/typesetting-utils/opentype"

	"github.com/glyphkit/opentype/ot"
)

// loadSampleFont walks the go-text/typesetting-utils embedded font corpus
// and parses the first .ttf/.otf/.ttc file it finds, so dump -sample has
// a font to dump when the caller has no font file of their own at hand.
func loadSampleFont() (*ot.Font, string, error) {
	var picked string
	err := fs.WalkDir(fixtures.Files, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || picked != "" {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf", ".ttc":
			picked = path
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("sample corpus: %w", err)
	}
	if picked == "" {
		return nil, "", fmt.Errorf("sample corpus: no font file found")
	}

	data, err := fixtures.Files.ReadFile(picked)
	if err != nil {
		return nil, "", fmt.Errorf("sample corpus: reading %s: %w", picked, err)
	}
	f, err := ot.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("sample corpus: parsing %s: %w", picked, err)
	}
	for _, w := range f.Warnings() {
		tracer().Infof("warning: table %s: %s", w.Table, w.Issue)
	}
	return f, picked, nil
}
