package mp4io

const AVCC = Tag(0x61766343)

// AVC1Conf carries an AVCDecoderConfigurationRecord.
type AVC1Conf struct {
	Data []byte
	AtomPos
}

func (*AVC1Conf) Tag() Tag {
	return AVCC
}

func (a *AVC1Conf) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, AVCC, &a.AtomPos)
	a.Data = l.fill()
	return l.finish()
}
