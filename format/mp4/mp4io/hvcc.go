package mp4io

const HVCC = Tag(0x68766343)

// HV1Conf carries an HEVCDecoderConfigurationRecord.
type HV1Conf struct {
	Data []byte
	AtomPos
}

func (*HV1Conf) Tag() Tag {
	return HVCC
}

func (h *HV1Conf) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, HVCC, &h.AtomPos)
	h.Data = l.fill()
	return l.finish()
}
