package ot

import "fmt"

const (
	sfntVersionTrueType = 0x00010000
	sfntVersionOTTO     = 0x4F54544F // 'OTTO'
	sfntTagTrueType     = 0x74727565 // 'true', legacy Apple TrueType
	ttcTag              = 0x74746366 // 'ttcf'
)

// tableRecord is one entry of the sfnt table directory.
type tableRecord struct {
	tag    Tag
	offset uint32
	length uint32
}

// Table is a parsed font table. Every table tag found in a font surfaces
// at least a generic Table (raw bytes); tables this package understands
// also attach a typed value tree, reached through the Font's typed
// fields (CMap, GDef, GSub, ...) rather than through Table itself.
type Table interface {
	Tag() Tag
	Bytes() []byte
}

type rawTable struct {
	tag   Tag
	bytes []byte
}

func (t rawTable) Tag() Tag      { return t.tag }
func (t rawTable) Bytes() []byte { return t.bytes }

// Font is the immutable, in-memory representation of one OpenType face:
// a table directory plus the decoded value trees shaping depends on.
// Once Parse returns, a Font is read-only and may be shared by any number
// of concurrent Shape calls.
type Font struct {
	data   []byte
	tables map[Tag]rawTable

	Head *HeadTable
	Maxp *MaxpTable
	CMap *CMapTable
	HHea *HHeaTable
	HMtx *HMtxTable
	VHea *VHeaTable
	VMtx *VMtxTable
	VOrg *VOrgTable
	Post *PostTable
	Gasp *GaspTable
	GDef *GDefTable
	GSub *GSubTable
	GPos *GPosTable
	Morx *MorxTable
	Base *BaseTable
	Math *MathTable
	Kern *KernTable

	errors   []FontError
	warnings []FontWarning
}

// Errors returns the non-fatal problems accumulated while parsing optional
// tables. A table named here was treated as absent rather than causing
// Parse to fail.
func (f *Font) Errors() []FontError { return f.errors }

// Warnings returns informational parse observations.
func (f *Font) Warnings() []FontWarning { return f.warnings }

// Table returns the raw bytes of the table tagged tag, or (Table{}, false)
// if the font does not contain it.
func (f *Font) Table(tag Tag) (Table, bool) {
	t, ok := f.tables[tag]
	return t, ok
}

// TableTags returns every table tag found in the font's table directory,
// including tables this package does not decode. Intended for display
// (cmd/otshape's dump subcommand), not for shaping decisions.
func (f *Font) TableTags() []Tag {
	tags := make([]Tag, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	return tags
}

// UnitsPerEm returns the font's design-unit grid, defaulting to 1000 if
// head failed to parse (it never should, since head is required).
func (f *Font) UnitsPerEm() uint16 {
	if f.Head == nil || f.Head.UnitsPerEm == 0 {
		return 1000
	}
	return f.Head.UnitsPerEm
}

// NumGlyphs returns the glyph count declared by maxp.
func (f *Font) NumGlyphs() int {
	if f.Maxp == nil {
		return 0
	}
	return int(f.Maxp.NumGlyphs)
}

// Parse decodes a single-font sfnt or OTTO offset table from data.
//
// Parse surfaces InvalidSfntError if data does not begin with a
// recognized magic number, and MissingRequiredTableError if head, maxp,
// cmap, hhea, or hmtx cannot be found or decoded. Every other table is
// optional: a damaged optional table is recorded in Font.Errors and
// treated as absent, never aborting the parse.
//
// Font collections (.ttc) are demultiplexed by the caller; Parse consumes
// only a single offset table starting at data[0].
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, InvalidSfntError{Reason: "file too short for an offset table"}
	}
	r := newReader(data)
	version := r.u32()
	switch version {
	case sfntVersionTrueType, sfntVersionOTTO, sfntTagTrueType:
	case ttcTag:
		return nil, InvalidSfntError{Reason: "font collections are demultiplexed outside this package"}
	default:
		return nil, InvalidSfntError{Reason: fmt.Sprintf("unrecognized sfnt version 0x%08X", uint32(version))}
	}

	numTables := int(r.u16())
	r.skip(6) // searchRange, entrySelector, rangeShift

	f := &Font{data: data, tables: make(map[Tag]rawTable, numTables)}
	for i := 0; i < numTables; i++ {
		tag := r.tag()
		r.skip(4) // checksum, not verified: shaping never needs it
		offset := r.u32()
		length := r.u32()
		if r.err != nil {
			return nil, InvalidSfntError{Reason: "truncated table directory"}
		}
		tb, err := r.bytesAt(int(offset), int(length))
		if err != nil {
			f.addWarning(tag, "table directory entry out of bounds, table dropped")
			continue
		}
		f.tables[tag] = rawTable{tag: tag, bytes: tb}
	}

	if err := f.parseRequiredTables(); err != nil {
		return nil, err
	}
	f.parseOptionalTables()
	return f, nil
}

func (f *Font) addError(table Tag, section, issue string, severity ErrorSeverity) {
	f.errors = append(f.errors, FontError{Table: table, Section: section, Issue: issue, Severity: severity})
}

func (f *Font) addWarning(table Tag, issue string) {
	f.warnings = append(f.warnings, FontWarning{Table: table, Issue: issue})
}

func (f *Font) parseRequiredTables() error {
	type required struct {
		tag   Tag
		parse func(b []byte) error
	}
	reqs := []required{
		{T("head"), func(b []byte) error { h, err := parseHead(b); f.Head = h; return err }},
		{T("maxp"), func(b []byte) error { m, err := parseMaxp(b); f.Maxp = m; return err }},
		{T("hhea"), func(b []byte) error { h, err := parseHHea(b); f.HHea = h; return err }},
	}
	for _, req := range reqs {
		tb, ok := f.tables[req.tag]
		if !ok {
			return MissingRequiredTableError{Table: req.tag}
		}
		if err := req.parse(tb.bytes); err != nil {
			return MissingRequiredTableError{Table: req.tag}
		}
	}
	if tb, ok := f.tables[T("hmtx")]; ok {
		hm, err := parseHMtx(tb.bytes, f.HHea.NumberOfHMetrics, f.NumGlyphs())
		if err != nil {
			return MissingRequiredTableError{Table: T("hmtx")}
		}
		f.HMtx = hm
	} else {
		return MissingRequiredTableError{Table: T("hmtx")}
	}
	if tb, ok := f.tables[T("cmap")]; ok {
		cm, err := parseCMap(tb.bytes)
		if err != nil {
			return MissingRequiredTableError{Table: T("cmap")}
		}
		f.CMap = cm
	} else {
		return MissingRequiredTableError{Table: T("cmap")}
	}
	return nil
}

// parseOptionalTables decodes every table this package understands beyond
// the required set. Each parser catches its own truncation and downgrades
// to "absent" rather than letting an error escape Parse.
func (f *Font) parseOptionalTables() {
	type optional struct {
		tag   Tag
		parse func(b []byte) error
	}
	opts := []optional{
		{T("vhea"), func(b []byte) error { v, err := parseVHea(b); f.VHea = v; return err }},
		{T("post"), func(b []byte) error { p, err := parsePost(b); f.Post = p; return err }},
		{T("gasp"), func(b []byte) error { g, err := parseGasp(b); f.Gasp = g; return err }},
		{T("GDEF"), func(b []byte) error { g, err := parseGDef(b); f.GDef = g; return err }},
		{T("GSUB"), func(b []byte) error { g, err := parseGSub(b); f.GSub = g; return err }},
		{T("GPOS"), func(b []byte) error { g, err := parseGPos(b); f.GPos = g; return err }},
		{T("morx"), func(b []byte) error { m, err := parseMorx(b); f.Morx = m; return err }},
		{T("BASE"), func(b []byte) error { base, err := parseBase(b); f.Base = base; return err }},
		{T("MATH"), func(b []byte) error { m, err := parseMath(b); f.Math = m; return err }},
		{T("kern"), func(b []byte) error { k, err := parseKern(b); f.Kern = k; return err }},
	}
	for _, opt := range opts {
		tb, ok := f.tables[opt.tag]
		if !ok {
			continue
		}
		if err := opt.parse(tb.bytes); err != nil {
			f.addError(opt.tag, "parse", err.Error(), SeverityMinor)
		}
	}
	if f.VHea != nil {
		if tb, ok := f.tables[T("vmtx")]; ok {
			vm, err := parseVMtx(tb.bytes, f.VHea.NumOfLongVerMetrics, f.NumGlyphs())
			if err != nil {
				f.addError(T("vmtx"), "parse", err.Error(), SeverityMinor)
			} else {
				f.VMtx = vm
			}
		}
	}
	if tb, ok := f.tables[T("VORG")]; ok {
		vo, err := parseVOrg(tb.bytes)
		if err != nil {
			f.addError(T("VORG"), "parse", err.Error(), SeverityMinor)
		} else {
			f.VOrg = vo
		}
	}
}
