package mp4io

import "fmt"

// UnresolvedChild is a child atom discovered while scanning a container's
// body but not yet claimed by any role.
type UnresolvedChild struct {
	Offset uint64
	Length uint64
	Tag    Tag
}

func (u UnresolvedChild) End() uint64 {
	return u.Offset + u.Length
}

// Container is the shared part of every atom whose body is a sequence of
// child atoms. Children are claimed out of the unresolved list by role
// lookups; a claimed child is never handed out again.
type Container struct {
	AtomPos
	tag        Tag
	unresolved []UnresolvedChild
}

// Unresolved returns the children no role has claimed yet.
func (ct *Container) Unresolved() []UnresolvedChild {
	return append([]UnresolvedChild(nil), ct.unresolved...)
}

// label names the container in errors. The file itself has no tag.
func (ct *Container) label() string {
	if ct.tag == 0 {
		return "file"
	}
	return ct.tag.String()
}

// beginContainer consumes the frame and tag at the cursor, checks the tag
// and tokenizes the body into unresolved children.
func beginContainer(c *Cursor, want Tag, ct *Container) error {
	f, tag, err := ReadHeader(c)
	if err != nil {
		return err
	}
	if tag != want {
		return &HeaderMismatchError{Offset: f.Offset, Expected: want, Actual: tag}
	}
	ct.setPos(f)
	ct.tag = tag
	ct.unresolved = nil
	return ct.scanChildren(c, f.End())
}

// scanChildren records every child frame from the cursor up to end, skipping
// each child by exactly its declared length.
func (ct *Container) scanChildren(c *Cursor, end uint64) error {
	for c.Position() < end {
		pos := c.Position()
		if end-pos < HeaderSize {
			if end-pos == 4 {
				// QuickTime allows a 32-bit zero to terminate an atom list.
				v, err := c.U32()
				if err != nil {
					return err
				}
				if v == 0 {
					return nil
				}
			}
			return fmt.Errorf("%w: %d stray bytes at offset %d before %s end %d",
				ErrFramingViolation, end-pos, pos, ct.label(), end)
		}
		f, tag, err := ReadHeader(c)
		if err != nil {
			return err
		}
		if f.End() > end {
			return fmt.Errorf("%w: child %q at offset %d ends at %d, past %s end %d",
				ErrFramingViolation, tag, f.Offset, f.End(), ct.label(), end)
		}
		ct.unresolved = append(ct.unresolved, UnresolvedChild{Offset: f.Offset, Length: f.Length, Tag: tag})
		if err = c.SeekAbsolute(f.End()); err != nil {
			return err
		}
	}
	return nil
}

// claim removes the first unresolved child tagged tag and re-reads its
// header through c to make sure the cursor still sees the same bytes.
func (ct *Container) claim(c *Cursor, tag Tag) (UnresolvedChild, bool, error) {
	for i, u := range ct.unresolved {
		if u.Tag != tag {
			continue
		}
		if err := ct.probe(c, u); err != nil {
			return u, false, err
		}
		ct.unresolved = append(ct.unresolved[:i], ct.unresolved[i+1:]...)
		return u, true, nil
	}
	return UnresolvedChild{}, false, nil
}

// claimAll removes every unresolved child tagged tag, in discovery order.
func (ct *Container) claimAll(c *Cursor, tag Tag) ([]UnresolvedChild, error) {
	var claimed []UnresolvedChild
	for _, u := range ct.unresolved {
		if u.Tag != tag {
			continue
		}
		if err := ct.probe(c, u); err != nil {
			return nil, err
		}
		claimed = append(claimed, u)
	}
	kept := ct.unresolved[:0]
	for _, u := range ct.unresolved {
		if u.Tag != tag {
			kept = append(kept, u)
		}
	}
	ct.unresolved = kept
	return claimed, nil
}

func (ct *Container) probe(c *Cursor, u UnresolvedChild) error {
	back := c.Position()
	defer c.SeekAbsolute(back) //nolint:errcheck
	if err := c.SeekAbsolute(u.Offset); err != nil {
		return err
	}
	f, tag, err := PeekHeader(c)
	if err != nil {
		return err
	}
	if tag != u.Tag {
		return &HeaderMismatchError{Offset: u.Offset, Expected: u.Tag, Actual: tag}
	}
	if f.Length != u.Length {
		return fmt.Errorf("%w: child %q at offset %d was scanned with length %d, now declares %d",
			ErrFramingViolation, tag, u.Offset, u.Length, f.Length)
	}
	return nil
}

type searchState uint8

const (
	notSearched searchState = iota
	searched
)

// Slot memoizes the lookup of a singular role. Whether the role has been
// searched is kept apart from whether anything was found.
type Slot[T any] struct {
	state searchState
	found bool
	ref   Reference[T]
}

// Slots memoizes the lookup of a repeated role.
type Slots[T any] struct {
	state searchState
	refs  []Reference[T]
}

func optional[T any, PT atomPtr[T]](ct *Container, s *Slot[T], c *Cursor) (Reference[T], bool, error) {
	if s.state == searched {
		return s.ref, s.found, nil
	}
	u, ok, err := ct.claim(c, tagOf[T, PT]())
	if err != nil {
		return Reference[T]{}, false, parseErr(ct.label(), ct.Offset, err)
	}
	s.state, s.found = searched, ok
	if ok {
		s.ref = NewReference[T](u.Offset, u.Length)
	}
	return s.ref, s.found, nil
}

func required[T any, PT atomPtr[T]](ct *Container, s *Slot[T], c *Cursor) (Reference[T], error) {
	ref, ok, err := optional[T, PT](ct, s, c)
	if err != nil {
		return ref, err
	}
	if !ok {
		tag := tagOf[T, PT]()
		return ref, fmt.Errorf("%w: %q (%s) in %s at offset %d",
			ErrMissingRequiredChild, tag, TagName(tag), ct.label(), ct.Offset)
	}
	return ref, nil
}

func all[T any, PT atomPtr[T]](ct *Container, s *Slots[T], c *Cursor) ([]Reference[T], error) {
	if s.state == searched {
		return s.refs, nil
	}
	claimed, err := ct.claimAll(c, tagOf[T, PT]())
	if err != nil {
		return nil, parseErr(ct.label(), ct.Offset, err)
	}
	s.state = searched
	s.refs = make([]Reference[T], 0, len(claimed))
	for _, u := range claimed {
		s.refs = append(s.refs, NewReference[T](u.Offset, u.Length))
	}
	return s.refs, nil
}
