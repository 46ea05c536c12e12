// Package mp4io parses MP4/QuickTime atoms from a seekable byte source.
//
// Parsing is lazy: container atoms only tokenize their children into
// offset/length records and resolve a child the first time its role is
// asked for. Every deferred handle is a plain Reference value, so parse
// trees never hold live pointers into a cursor or into each other.
package mp4io

import (
	"fmt"
	"time"
)

// HeaderSize is the size of the 32-bit length field plus the type tag.
const HeaderSize = 8

// Fixed16 is an 8.8 fixed-point wire value.
type Fixed16 uint16

// Float returns the fractional interpretation of f.
func (f Fixed16) Float() float64 {
	return float64(f>>8) + float64(f&0xff)/256.0
}

// Fixed32 is a 16.16 fixed-point wire value.
type Fixed32 uint32

// Float returns the fractional interpretation of f.
func (f Fixed32) Float() float64 {
	return float64(f>>16) + float64(f&0xffff)/65536.0
}

// Matrix is the 3x3 transformation matrix carried by mvhd and tkhd.
type Matrix struct {
	A, B, U Fixed32
	C, D, V Fixed32
	X, Y, W Fixed32
}

// LenMatrix is the encoded size of a Matrix.
const LenMatrix = 36

var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Time1904 converts seconds since 1904-01-01 UTC, the container's epoch.
func Time1904(sec uint64) time.Time {
	return epoch1904.Add(time.Second * time.Duration(sec)) //nolint:gosec
}

// Atom is a fully parsed box.
type Atom interface {
	Tag() Tag
	Pos() (offset uint64, size uint64)
	Unmarshal(c *Cursor) error
}

// AtomPos records where a parsed atom lives in the source.
type AtomPos struct {
	Offset uint64
	Size   uint64
}

func (p AtomPos) Pos() (uint64, uint64) {
	return p.Offset, p.Size
}

func (p *AtomPos) setPos(f Frame) {
	p.Offset, p.Size = f.Offset, f.Length
}

func (p AtomPos) String() string {
	return fmt.Sprintf("offset=%d size=%d", p.Offset, p.Size)
}

// ScaleToDuration converts v ticks of a scale-per-second clock to a duration.
func ScaleToDuration(v uint64, scale uint32) time.Duration {
	if scale == 0 {
		return 0
	}
	s := uint64(scale)
	return time.Duration(v/s)*time.Second + time.Duration(v%s*uint64(time.Second)/s) //nolint:gosec
}

// DurationToScale is the inverse of ScaleToDuration, truncating toward zero.
func DurationToScale(d time.Duration, scale uint32) uint64 {
	if d <= 0 {
		return 0
	}
	s := uint64(scale)
	return uint64(d/time.Second)*s + uint64(d%time.Second)*s/uint64(time.Second)
}
