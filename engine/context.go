package engine

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// Context carries the shared state one Apply* call needs: the buffer
// being rewritten, the font tables the lookup indices are drawn from, and
// the nesting depth of the current contextual-lookup recursion.
type Context struct {
	Buf   *buffer.Buffer
	Font  *ot.Font
	depth int
}

// New returns a fresh top-level Context (nesting depth 0) over buf/font.
func New(buf *buffer.Buffer, font *ot.Font) *Context {
	return &Context{Buf: buf, Font: font}
}

func (c *Context) gdef() *ot.GDefTable { return c.Font.GDef }

func (c *Context) skippy(flag ot.LookupFlag, markFilteringSet uint16) *buffer.SkippyIterator {
	return buffer.NewSkippyIterator(c.Buf, c.gdef(), flag, markFilteringSet)
}

// nested returns a child Context one recursion level deeper, or nil if
// maxContextRecursion has been reached.
func (c *Context) nested() *Context {
	if c.depth+1 >= maxContextRecursion {
		return nil
	}
	return &Context{Buf: c.Buf, Font: c.Font, depth: c.depth + 1}
}
