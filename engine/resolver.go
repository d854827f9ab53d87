package engine

import "github.com/glyphkit/opentype/ot"

// lookupResolver lets the shared contextual-matching code in
// context_apply.go invoke nested lookups without caring whether the
// owning table is GSUB or GPOS — a Context/ChainContext subtable's nested
// SequenceLookupRecords only ever reference lookups of their own table.
type lookupResolver interface {
	resolve(idx uint16) *ot.Lookup
	applyAt(ctx *Context, lookup *ot.Lookup, pos int, mask uint32) bool
}

type gsubResolver struct{ tbl *ot.GSubTable }

func (r gsubResolver) resolve(idx uint16) *ot.Lookup {
	if r.tbl == nil || r.tbl.LookupList == nil {
		return nil
	}
	return r.tbl.LookupList.At(idx)
}

func (r gsubResolver) applyAt(ctx *Context, lookup *ot.Lookup, pos int, mask uint32) bool {
	return applyGSubLookupAt(ctx, r.tbl, lookup, pos, mask)
}

type gposResolver struct{ tbl *ot.GPosTable }

func (r gposResolver) resolve(idx uint16) *ot.Lookup {
	if r.tbl == nil || r.tbl.LookupList == nil {
		return nil
	}
	return r.tbl.LookupList.At(idx)
}

func (r gposResolver) applyAt(ctx *Context, lookup *ot.Lookup, pos int, mask uint32) bool {
	return applyGPosLookupAt(ctx, r.tbl, lookup, pos, mask)
}
