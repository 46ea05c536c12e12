package mp4io

const FTYP = Tag(0x66747970)

// FileType lists the brands a file claims to conform to.
type FileType struct {
	MajorBrand       Tag
	MinorVersion     uint32
	CompatibleBrands []Tag
	AtomPos
}

func (*FileType) Tag() Tag {
	return FTYP
}

func (f *FileType) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, FTYP, &f.AtomPos)
	f.MajorBrand = l.tag()
	f.MinorVersion = l.u32()
	f.CompatibleBrands = readSeq(&l, "compatible brands", 4, (*leaf).tag)
	return l.finish()
}

// Compatible reports whether brand is the major brand or one of the compatible ones.
func (f *FileType) Compatible(brand Tag) bool {
	if f.MajorBrand == brand {
		return true
	}
	for _, b := range f.CompatibleBrands {
		if b == brand {
			return true
		}
	}
	return false
}
