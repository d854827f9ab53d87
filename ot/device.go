package ot

// Device is a ppem-dependent integer delta, used by GPOS ValueRecords and
// anchors to hint-adjust a design-unit coordinate at specific rendering
// sizes. In non-variable contexts and whenever the requested ppem has no
// entry, Delta returns 0.
type Device interface {
	Delta(ppemX, ppemY uint16) int32
}

// noDevice is returned whenever a Device offset is absent or malformed.
type noDevice struct{}

func (noDevice) Delta(uint16, uint16) int32 { return 0 }

// hintingDevice is the classic Device table (formats 1-3): a start/end
// ppem range plus a packed array of deltaFormat-width deltas.
type hintingDevice struct {
	startSize, endSize uint16
	deltaFormat        uint16
	deltaValues        []uint16
}

func (d *hintingDevice) Delta(ppemX, _ uint16) int32 {
	if ppemX < d.startSize || ppemX > d.endSize {
		return 0
	}
	if d.deltaFormat < 1 || d.deltaFormat > 3 {
		return 0
	}
	bitsPerValue := 1 << d.deltaFormat // format 1->2 bits, 2->4 bits, 3->8 bits
	valuesPerWord := 16 / bitsPerValue
	index := int(ppemX - d.startSize)
	word := d.deltaValues[index/valuesPerWord]
	shift := uint(16 - bitsPerValue*(index%valuesPerWord+1))
	mask := uint16(1<<bitsPerValue - 1)
	raw := (word >> shift) & mask
	signBit := uint16(1) << (bitsPerValue - 1)
	if raw&signBit != 0 {
		return int32(raw) - int32(mask) - 1
	}
	return int32(raw)
}

// variationDevice is a Device table in VariationIndex form (deltaFormat ==
// 0x8000): it names an entry in the font's ItemVariationStore rather than
// carrying literal deltas. Resolving it requires the variation store,
// which is out of scope for this engine's non-variable baseline, so it
// behaves as a no-op device.
type variationDevice struct {
	outerIndex, innerIndex uint16
}

func (variationDevice) Delta(uint16, uint16) int32 { return 0 }

// parseDevice decodes a Device/VariationIndex table at offset within b.
func parseDevice(b []byte, offset int) (Device, error) {
	if offset == 0 {
		return noDevice{}, nil
	}
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return noDevice{}, nil //nolint:nilerr // malformed device degrades to no-op, per failure semantics
	}
	startSize := r.u16()
	endSize := r.u16()
	deltaFormat := r.u16()
	if deltaFormat == 0x8000 {
		return &variationDevice{outerIndex: startSize, innerIndex: endSize}, nil
	}
	if deltaFormat < 1 || deltaFormat > 3 {
		return noDevice{}, nil
	}
	bitsPerValue := 1 << deltaFormat
	valuesPerWord := 16 / bitsPerValue
	count := int(endSize-startSize) + 1
	if count < 0 {
		return noDevice{}, nil
	}
	numWords := (count + valuesPerWord - 1) / valuesPerWord
	words := r.u16Array(numWords)
	if r.err != nil {
		return noDevice{}, nil
	}
	return &hintingDevice{startSize: startSize, endSize: endSize, deltaFormat: deltaFormat, deltaValues: words}, nil
}
