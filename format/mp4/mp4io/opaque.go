package mp4io

// Atoms whose bodies are carried as opaque bytes.
// UserData is kept as raw bytes; its item list is not decoded.
type UserData struct {
	Dummy
}

func (*UserData) Tag() Tag {
	return UDTA
}

func (a *UserData) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, UDTA)
}

type CompressedMovie struct {
	Dummy
}

func (*CompressedMovie) Tag() Tag {
	return CMOV
}

func (a *CompressedMovie) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, CMOV)
}

type TrackReference struct {
	Dummy
}

func (*TrackReference) Tag() Tag {
	return TREF
}

func (a *TrackReference) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, TREF)
}

type TrackExcludeAutoselect struct {
	Dummy
}

func (*TrackExcludeAutoselect) Tag() Tag {
	return TXAS
}

func (a *TrackExcludeAutoselect) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, TXAS)
}

type TrackInputMap struct {
	Dummy
}

func (*TrackInputMap) Tag() Tag {
	return IMAP
}

func (a *TrackInputMap) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, IMAP)
}

// BaseMediaInfo is the gmhd header of non-audiovisual QuickTime media.
type BaseMediaInfo struct {
	Dummy
}

func (*BaseMediaInfo) Tag() Tag {
	return GMHD
}

func (a *BaseMediaInfo) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, GMHD)
}

type ClippingRegion struct {
	Dummy
}

func (*ClippingRegion) Tag() Tag {
	return CRGN
}

func (a *ClippingRegion) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, CRGN)
}

type CompressedMatte struct {
	Dummy
}

func (*CompressedMatte) Tag() Tag {
	return KMAT
}

func (a *CompressedMatte) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, KMAT)
}

type ReferenceMovieDataRef struct {
	Dummy
}

func (*ReferenceMovieDataRef) Tag() Tag {
	return RDRF
}

func (a *ReferenceMovieDataRef) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, RDRF)
}

type ReferenceMovieCPURating struct {
	Dummy
}

func (*ReferenceMovieCPURating) Tag() Tag {
	return RMCS
}

func (a *ReferenceMovieCPURating) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, RMCS)
}

type ReferenceMovieVersionCheck struct {
	Dummy
}

func (*ReferenceMovieVersionCheck) Tag() Tag {
	return RMVC
}

func (a *ReferenceMovieVersionCheck) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, RMVC)
}

type ReferenceMovieComponentCheck struct {
	Dummy
}

func (*ReferenceMovieComponentCheck) Tag() Tag {
	return RMCD
}

func (a *ReferenceMovieComponentCheck) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, RMCD)
}

// SoundWave holds codec setup QuickTime puts next to a sound entry.
type SoundWave struct {
	Dummy
}

func (*SoundWave) Tag() Tag {
	return WAVE
}

func (a *SoundWave) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, WAVE)
}

type SampleGroupDesc struct {
	Dummy
}

func (*SampleGroupDesc) Tag() Tag {
	return SGPD
}

func (a *SampleGroupDesc) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, SGPD)
}

type SampleToGroup struct {
	Dummy
}

func (*SampleToGroup) Tag() Tag {
	return SBGP
}

func (a *SampleToGroup) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, SBGP)
}
