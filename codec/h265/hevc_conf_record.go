package h265

import (
	"errors"
	"fmt"

	"github.com/ugparu/mp4atom/utils/bits/pio"
	"github.com/ugparu/mp4atom/utils/nal"
)

const (
	headerSize      = 23
	lengthFieldSize = 2

	maskProfileIdc         = 0x1f
	maskLengthSizeMinusOne = 0x03
	maskArrayNALUType      = 0x3f
	arrayCompleteness      = 0x80
)

var ErrDecconfInvalid = errors.New("h265: HEVCDecoderConfRecord invalid")

// HEVCDecoderConfRecord is the payload of an hvcC atom. Arrays of NAL unit
// types other than VPS, SPS and PPS are skipped.
type HEVCDecoderConfRecord struct {
	ProfileSpace         uint8
	Tier                 uint8
	ProfileIdc           uint8
	ProfileCompatibility uint32
	ConstraintIndicator  [6]byte
	LevelIdc             uint8
	ChromaFormat         uint8
	BitDepthLumaMinus8   uint8
	BitDepthChromaMinus8 uint8
	AvgFrameRate         uint16
	LengthSizeMinusOne   uint8
	VPS                  [][]byte
	SPS                  [][]byte
	PPS                  [][]byte
}

func invalid(what string, off int) error {
	return fmt.Errorf("%w: %s at byte %d", ErrDecconfInvalid, what, off)
}

// Unmarshal decodes the record in b. The parameter sets alias b.
// It returns the number of bytes read.
func (hevc *HEVCDecoderConfRecord) Unmarshal(b []byte) (n int, err error) {
	if len(b) < headerSize {
		return 0, invalid("short record", len(b))
	}
	if b[0] != 1 {
		return 0, invalid(fmt.Sprintf("configuration version %d", b[0]), 0)
	}

	hevc.ProfileSpace = b[1] >> 6
	hevc.Tier = (b[1] >> 5) & 1
	hevc.ProfileIdc = b[1] & maskProfileIdc
	hevc.ProfileCompatibility = pio.U32BE(b[2:])
	copy(hevc.ConstraintIndicator[:], b[6:12])
	hevc.LevelIdc = b[12]
	hevc.ChromaFormat = b[16] & 0x03
	hevc.BitDepthLumaMinus8 = b[17] & 0x07
	hevc.BitDepthChromaMinus8 = b[18] & 0x07
	hevc.AvgFrameRate = pio.U16BE(b[19:])
	hevc.LengthSizeMinusOne = b[21] & maskLengthSizeMinusOne

	arrays := int(b[22])
	n = headerSize
	for range arrays {
		if len(b) < n+3 {
			return n, invalid("array header", n)
		}
		typ := b[n] & maskArrayNALUType
		count := int(pio.U16BE(b[n+1:]))
		n += 3
		var sets [][]byte
		for range count {
			if len(b) < n+lengthFieldSize {
				return n, invalid("nalu length", n)
			}
			l := int(pio.U16BE(b[n:]))
			n += lengthFieldSize
			if len(b) < n+l {
				return n, invalid("nalu body", n)
			}
			sets = append(sets, b[n:n+l])
			n += l
		}
		switch typ {
		case NaluVPS:
			hevc.VPS = append(hevc.VPS, sets...)
		case NaluSPS:
			hevc.SPS = append(hevc.SPS, sets...)
		case NaluPPS:
			hevc.PPS = append(hevc.PPS, sets...)
		}
	}
	return n, nil
}

type paramArray struct {
	typ  uint8
	sets [][]byte
}

func (hevc *HEVCDecoderConfRecord) arrays() []paramArray {
	var out []paramArray
	for _, a := range []paramArray{{NaluVPS, hevc.VPS}, {NaluSPS, hevc.SPS}, {NaluPPS, hevc.PPS}} {
		if len(a.sets) > 0 {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the size of the marshalled record.
func (hevc *HEVCDecoderConfRecord) Len() int {
	n := headerSize
	for _, a := range hevc.arrays() {
		n += 3
		for _, s := range a.sets {
			n += lengthFieldSize + len(s)
		}
	}
	return n
}

// Marshal writes the record to b, which must hold Len bytes. Empty
// parameter set arrays are left out.
func (hevc *HEVCDecoderConfRecord) Marshal(b []byte) (n int) {
	b[0] = 1
	b[1] = hevc.ProfileSpace<<6 | hevc.Tier<<5 | hevc.ProfileIdc&maskProfileIdc
	pio.PutU32BE(b[2:], hevc.ProfileCompatibility)
	copy(b[6:12], hevc.ConstraintIndicator[:])
	b[12] = hevc.LevelIdc
	pio.PutU16BE(b[13:], 0xf000)
	b[15] = 0xfc
	b[16] = 0xfc | hevc.ChromaFormat&0x03
	b[17] = 0xf8 | hevc.BitDepthLumaMinus8&0x07
	b[18] = 0xf8 | hevc.BitDepthChromaMinus8&0x07
	pio.PutU16BE(b[19:], hevc.AvgFrameRate)
	b[21] = 1<<3 | hevc.LengthSizeMinusOne&maskLengthSizeMinusOne
	arrays := hevc.arrays()
	b[22] = uint8(len(arrays)) //nolint:gosec
	n = headerSize

	for _, a := range arrays {
		b[n] = arrayCompleteness | a.typ
		pio.PutU16BE(b[n+1:], uint16(len(a.sets))) //nolint:gosec
		n += 3
		for _, s := range a.sets {
			pio.PutU16BE(b[n:], uint16(len(s))) //nolint:gosec
			n += lengthFieldSize
			n += copy(b[n:], s)
		}
	}
	return n
}

// NALULengthSize is the width of the length prefix before each NALU in a sample.
func (hevc *HEVCDecoderConfRecord) NALULengthSize() int {
	return int(hevc.LengthSizeMinusOne) + 1
}

// SplitSample splits one length-prefixed sample into its NALUs.
func (hevc *HEVCDecoderConfRecord) SplitSample(sample []byte) ([][]byte, error) {
	return nal.SplitLengthPrefixed(sample, hevc.NALULengthSize())
}
