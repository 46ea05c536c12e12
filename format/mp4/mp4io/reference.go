package mp4io

import "fmt"

// atomPtr lets generic code allocate a T and parse it through *T.
type atomPtr[T any] interface {
	*T
	Atom
}

// Reference locates an atom of type T without parsing it. It holds no
// cursor and no parsed state, so it can be copied, compared, shared between
// goroutines and resolved against any Cursor over the same bytes.
type Reference[T any] struct {
	Offset uint64
	Length uint64
}

func NewReference[T any](offset, length uint64) Reference[T] {
	return Reference[T]{Offset: offset, Length: length}
}

// End is the offset just past the referenced atom.
func (r Reference[T]) End() uint64 {
	return r.Offset + r.Length
}

func (r Reference[T]) Frame() Frame {
	return Frame{Offset: r.Offset, Length: r.Length}
}

func (r Reference[T]) String() string {
	return fmt.Sprintf("ref(offset=%d len=%d)", r.Offset, r.Length)
}

// Scan records the atom at the cursor and skips past it.
func Scan[T any](c *Cursor) (Reference[T], error) {
	f, _, err := PeekHeader(c)
	if err != nil {
		return Reference[T]{}, err
	}
	if err = c.SeekAbsolute(f.End()); err != nil {
		return Reference[T]{}, err
	}
	return Reference[T]{Offset: f.Offset, Length: f.Length}, nil
}

// Resolve seeks to the referenced atom and parses it. The result depends
// only on the referenced bytes, so resolving twice yields equal values.
func Resolve[T any, PT atomPtr[T]](r Reference[T], c *Cursor) (*T, error) {
	v := PT(new(T))
	if err := c.SeekAbsolute(r.Offset); err != nil {
		return nil, parseErr(v.Tag().String(), r.Offset, err)
	}
	if err := v.Unmarshal(c); err != nil {
		return nil, parseErr(v.Tag().String(), r.Offset, err)
	}
	if _, size := v.Pos(); size != r.Length {
		err := fmt.Errorf("%w: reference length %d, atom declares %d", ErrFramingViolation, r.Length, size)
		return nil, parseErr(v.Tag().String(), r.Offset, err)
	}
	return (*T)(v), nil
}

// tagOf is the tag a role of type T searches for.
func tagOf[T any, PT atomPtr[T]]() Tag {
	return PT(new(T)).Tag()
}
