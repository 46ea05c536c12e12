package mp4io

const DINF = Tag(0x64696e66)

type DataInfo struct {
	Container
	refer Slot[DataRefer]
}

func (*DataInfo) Tag() Tag {
	return DINF
}

func (d *DataInfo) Unmarshal(c *Cursor) error {
	return beginContainer(c, DINF, &d.Container)
}

func (d *DataInfo) Refer(c *Cursor) (Reference[DataRefer], error) {
	return required(&d.Container, &d.refer, c)
}
