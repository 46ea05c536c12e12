package h264

import (
	"errors"
	"fmt"

	"github.com/ugparu/mp4atom/utils/bits/pio"
	"github.com/ugparu/mp4atom/utils/nal"
)

// NAL unit types the parser cares about.
const (
	NaluCodedIDR = 5
	NaluSPS      = 7
	NaluPPS      = 8
)

const (
	maskLengthSizeMinusOne    = 0x03
	maskSPSCount              = 0x1f
	maskLengthSizeMinusOneInv = 0xfc
	maskSPSCountInv           = 0xe0

	minRecordSize   = 7
	lengthFieldSize = 2
)

var ErrDecconfInvalid = errors.New("h264: AVCDecoderConfRecord invalid")

// AVCDecoderConfRecord is the payload of an avcC atom.
type AVCDecoderConfRecord struct {
	AVCProfileIndication uint8    // Profile indication for the AVC stream.
	ProfileCompatibility uint8    // Profile compatibility for the AVC stream.
	AVCLevelIndication   uint8    // Level indication for the AVC stream.
	LengthSizeMinusOne   uint8    // Size in bytes, minus one, of each NALU length prefix in samples.
	SPS                  [][]byte // Sequence Parameter Sets.
	PPS                  [][]byte // Picture Parameter Sets.
}

func invalid(what string, off int) error {
	return fmt.Errorf("%w: %s at byte %d", ErrDecconfInvalid, what, off)
}

// Unmarshal decodes the record in b. The SPS and PPS slices alias b.
// It returns the number of bytes read.
func (avc *AVCDecoderConfRecord) Unmarshal(b []byte) (n int, err error) {
	if len(b) < minRecordSize {
		return 0, invalid("short record", len(b))
	}
	if b[0] != 1 {
		return 0, invalid(fmt.Sprintf("configuration version %d", b[0]), 0)
	}

	avc.AVCProfileIndication = b[1]
	avc.ProfileCompatibility = b[2]
	avc.AVCLevelIndication = b[3]
	avc.LengthSizeMinusOne = b[4] & maskLengthSizeMinusOne
	n = 5

	if avc.SPS, n, err = readParameterSets(b, n+1, int(b[n]&maskSPSCount), "sps"); err != nil {
		return
	}
	if len(b) < n+1 {
		return n, invalid("pps count", n)
	}
	avc.PPS, n, err = readParameterSets(b, n+1, int(b[n]), "pps")
	return
}

func readParameterSets(b []byte, n, count int, what string) (sets [][]byte, _ int, err error) {
	for range count {
		if len(b) < n+lengthFieldSize {
			return nil, n, invalid(what+" length", n)
		}
		l := int(pio.U16BE(b[n:]))
		n += lengthFieldSize
		if len(b) < n+l {
			return nil, n, invalid(what+" body", n)
		}
		sets = append(sets, b[n:n+l])
		n += l
	}
	return sets, n, nil
}

// Len returns the size of the marshalled record.
func (avc *AVCDecoderConfRecord) Len() (n int) {
	n = minRecordSize
	for _, sps := range avc.SPS {
		n += lengthFieldSize + len(sps)
	}
	for _, pps := range avc.PPS {
		n += lengthFieldSize + len(pps)
	}
	return
}

// Marshal writes the record to b, which must hold Len bytes.
func (avc *AVCDecoderConfRecord) Marshal(b []byte) (n int) {
	b[0] = 1
	b[1] = avc.AVCProfileIndication
	b[2] = avc.ProfileCompatibility
	b[3] = avc.AVCLevelIndication
	b[4] = avc.LengthSizeMinusOne | maskLengthSizeMinusOneInv
	b[5] = uint8(len(avc.SPS)) | maskSPSCountInv //nolint:gosec // sps count fits 5 bits
	n += 6

	for _, sps := range avc.SPS {
		pio.PutU16BE(b[n:], uint16(len(sps))) //nolint:gosec
		n += lengthFieldSize
		n += copy(b[n:], sps)
	}

	b[n] = uint8(len(avc.PPS)) //nolint:gosec
	n++

	for _, pps := range avc.PPS {
		pio.PutU16BE(b[n:], uint16(len(pps))) //nolint:gosec
		n += lengthFieldSize
		n += copy(b[n:], pps)
	}

	return
}

// NALULengthSize is the width of the length prefix before each NALU in a sample.
func (avc *AVCDecoderConfRecord) NALULengthSize() int {
	return int(avc.LengthSizeMinusOne) + 1
}

// SplitSample splits one length-prefixed sample into its NALUs.
func (avc *AVCDecoderConfRecord) SplitSample(sample []byte) ([][]byte, error) {
	return nal.SplitLengthPrefixed(sample, avc.NALULengthSize())
}

// NALUType returns the nal_unit_type of a NALU.
func NALUType(nalu []byte) uint8 {
	if len(nalu) == 0 {
		return 0
	}
	return nalu[0] & 0x1f
}

// IsKeyFrame reports whether any NALU of a sample is an IDR slice.
func IsKeyFrame(nalus [][]byte) bool {
	for _, n := range nalus {
		if NALUType(n) == NaluCodedIDR {
			return true
		}
	}
	return false
}
