package mp4io

import "fmt"

// File is the top level of a movie file: a container without a header,
// spanning the whole source.
type File struct {
	Container
	ftyp Slot[FileType]
	moov Slot[Movie]
	mdat Slots[MediaData]
	free Slots[FreeType]
}

// ReadFile tokenizes the top-level atoms of the source behind c.
func ReadFile(c *Cursor) (*File, error) {
	size, err := c.Size()
	if err != nil {
		return nil, err
	}
	f := &File{}
	f.setPos(Frame{Offset: 0, Length: size})
	if err = c.SeekAbsolute(0); err != nil {
		return nil, err
	}
	if err = f.scanChildren(c, size); err != nil {
		return nil, parseErr(f.label(), 0, err)
	}
	return f, nil
}

func (f *File) FileType(c *Cursor) (Reference[FileType], bool, error) {
	return optional(&f.Container, &f.ftyp, c)
}

func (f *File) Movie(c *Cursor) (Reference[Movie], error) {
	return required(&f.Container, &f.moov, c)
}

func (f *File) MediaData(c *Cursor) ([]Reference[MediaData], error) {
	return all(&f.Container, &f.mdat, c)
}

func (f *File) Free(c *Cursor) ([]Reference[FreeType], error) {
	return all(&f.Container, &f.free, c)
}

// ReadFileAtoms lists the top-level atoms from the cursor position on,
// trusting each declared length to reach the next one. On a malformed
// header it returns the atoms read so far with the error.
func ReadFileAtoms(c *Cursor) (atoms []UnresolvedChild, err error) {
	size, err := c.Size()
	if err != nil {
		return nil, err
	}
	for c.Position() < size {
		f, tag, err := ReadHeader(c)
		if err != nil {
			return atoms, parseErr("file", f.Offset, err)
		}
		atoms = append(atoms, UnresolvedChild{Offset: f.Offset, Length: f.Length, Tag: tag})
		if f.End() > size {
			return atoms, fmt.Errorf("%w: top-level %q at offset %d ends at %d, past end of file %d",
				ErrTruncated, tag, f.Offset, f.End(), size)
		}
		if err = c.SeekAbsolute(f.End()); err != nil {
			return atoms, err
		}
	}
	return atoms, nil
}
