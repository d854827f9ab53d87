package ot

import "fmt"

// HeadTable is the decoded 'head' table: font-wide scaling and bbox info.
type HeadTable struct {
	FontRevision     Fixed
	UnitsPerEm       uint16
	Created          int64
	Modified         int64
	XMin, YMin       int16
	XMax, YMax       int16
	MacStyle         uint16
	LowestRecPPEM    uint16
	IndexToLocFormat int16 // 0 = short offsets, 1 = long offsets
}

const headSize = 54

func parseHead(b []byte) (*HeadTable, error) {
	r := newReader(b)
	r.skip(4) // majorVersion, minorVersion
	h := &HeadTable{}
	h.FontRevision = r.fixed()
	r.skip(4) // checkSumAdjustment
	r.skip(4) // magicNumber
	r.skip(2) // flags
	h.UnitsPerEm = r.u16()
	h.Created = int64(r.u32())<<32 | int64(r.u32())
	h.Modified = int64(r.u32())<<32 | int64(r.u32())
	h.XMin, h.YMin, h.XMax, h.YMax = r.i16(), r.i16(), r.i16(), r.i16()
	h.MacStyle = r.u16()
	h.LowestRecPPEM = r.u16()
	r.skip(2) // fontDirectionHint
	h.IndexToLocFormat = r.i16()
	if r.err != nil {
		return nil, fmt.Errorf("head: %w", r.err)
	}
	return h, nil
}

// MaxpTable is the decoded 'maxp' table.
type MaxpTable struct {
	NumGlyphs uint16
}

func parseMaxp(b []byte) (*MaxpTable, error) {
	r := newReader(b)
	r.skip(4) // version
	m := &MaxpTable{NumGlyphs: r.u16()}
	if r.err != nil {
		return nil, fmt.Errorf("maxp: %w", r.err)
	}
	return m, nil
}
