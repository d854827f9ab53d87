package ot

import "fmt"

// BaseCoord is a resolved baseline coordinate. BASE allows three encodings
// (literal, coord+reference-glyph, coord+Device) but per-glyph hinting
// reference resolution is out of shaping scope, so all three degrade to
// their literal coordinate here.
type BaseCoord int16

// BaseAxis holds one axis (horizontal or vertical) of the BASE table: the
// font's baseline tags plus per-script baseline coordinates.
type BaseAxis struct {
	BaselineTags []Tag
	Scripts      map[Tag]*BaseScript
}

// BaseScript is one script's baseline data: the default baseline it uses
// and per-baseline coordinates. Min/max extent records are not decoded.
type BaseScript struct {
	DefaultBaseline uint16 // index into BaseAxis.BaselineTags
	Coords          []BaseCoord // parallel to BaselineTags; 0 where absent
}

// BaseTable is the decoded 'BASE' table.
type BaseTable struct {
	Horizontal *BaseAxis
	Vertical   *BaseAxis
}

func parseBase(b []byte) (*BaseTable, error) {
	r := newReader(b)
	r.skip(4) // version
	horizOffset := int(r.u16())
	vertOffset := int(r.u16())
	if r.err != nil {
		return nil, fmt.Errorf("BASE: %w", r.err)
	}
	t := &BaseTable{}
	if horizOffset != 0 {
		t.Horizontal, _ = parseBaseAxis(b, horizOffset)
	}
	if vertOffset != 0 {
		t.Vertical, _ = parseBaseAxis(b, vertOffset)
	}
	return t, nil
}

func parseBaseAxis(b []byte, offset int) (*BaseAxis, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	baseTagListOffset := int(r.u16())
	baseScriptListOffset := int(r.u16())
	if r.err != nil {
		return nil, r.err
	}
	axis := &BaseAxis{Scripts: map[Tag]*BaseScript{}}
	if baseTagListOffset != 0 {
		axis.BaselineTags = parseBaseTagList(r.data, baseTagListOffset)
	}
	parseBaseScriptList(r.data, baseScriptListOffset, len(axis.BaselineTags), axis.Scripts)
	return axis, nil
}

func parseBaseTagList(b []byte, offset int) []Tag {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	tags := make([]Tag, count)
	for i := range tags {
		tags[i] = r.tag()
	}
	if r.err != nil {
		return nil
	}
	return tags
}

func parseBaseScriptList(b []byte, offset, tagCount int, out map[Tag]*BaseScript) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return
	}
	count := int(r.u16())
	type rec struct {
		tag    Tag
		offset int
	}
	recs := make([]rec, count)
	for i := range recs {
		recs[i] = rec{tag: r.tag(), offset: int(r.u16())}
	}
	if r.err != nil {
		return
	}
	for _, rc := range recs {
		bs, err := parseBaseScript(r.data, rc.offset, tagCount)
		if err != nil {
			continue
		}
		out[rc.tag] = bs
	}
}

func parseBaseScript(b []byte, offset, tagCount int) (*BaseScript, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	baseValuesOffset := int(r.u16())
	r.skip(2) // defaultMinMaxOffset, extent data out of shaping scope
	langSysCount := int(r.u16())
	r.skip(4 * langSysCount) // per-language min/max records, same scope cut
	if r.err != nil {
		return nil, r.err
	}
	bs := &BaseScript{Coords: make([]BaseCoord, tagCount)}
	if baseValuesOffset != 0 {
		parseBaseValues(r.data, baseValuesOffset, bs)
	}
	return bs, nil
}

func parseBaseValues(b []byte, offset int, bs *BaseScript) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return
	}
	defaultIndex := r.u16()
	count := int(r.u16())
	offsets := r.u16Array(count)
	if r.err != nil {
		return
	}
	bs.DefaultBaseline = defaultIndex
	for i, off := range offsets {
		if i >= len(bs.Coords) {
			break
		}
		bs.Coords[i] = parseBaseCoordValue(r.data, int(off))
	}
}

func parseBaseCoordValue(b []byte, offset int) BaseCoord {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return 0
	}
	format := r.u16()
	coord := r.i16()
	switch format {
	case 1, 2, 3:
		// formats 2 (reference glyph) and 3 (Device) both carry the same
		// literal coord as their first field; only hinting-time callers
		// need the extra data, which this package does not resolve.
	}
	if r.err != nil {
		return 0
	}
	return BaseCoord(coord)
}

// Coord returns the baseline coordinate for baselineTag in script, falling
// back to 0 (the script's own default baseline, conventionally at y=0) if
// the axis, script, or baseline is missing.
func (a *BaseAxis) Coord(script Tag, baselineTag Tag) BaseCoord {
	if a == nil {
		return 0
	}
	bs, ok := a.Scripts[script]
	if !ok {
		return 0
	}
	for i, tag := range a.BaselineTags {
		if tag == baselineTag && i < len(bs.Coords) {
			return bs.Coords[i]
		}
	}
	return 0
}
