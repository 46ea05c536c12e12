package nal

import (
	"errors"
	"fmt"

	"github.com/ugparu/mp4atom/utils/bits/pio"
)

// Framing reports how a buffer of NAL units was delimited.
type Framing int

const (
	Raw    Framing = iota // a single unit without framing
	AVCC                  // 4-byte big-endian length prefixes
	AnnexB                // 0x000001 / 0x00000001 start codes
)

func (f Framing) String() string {
	switch f {
	case AVCC:
		return "avcc"
	case AnnexB:
		return "annexb"
	default:
		return "raw"
	}
}

// MinNaluSize is the size of the length prefix assumed by SplitNALUs.
const MinNaluSize = 4

var ErrBadLength = errors.New("nal: length prefix past end of buffer")

// SplitLengthPrefixed splits b into units preceded by size-byte big-endian
// lengths, the layout of MP4 video samples. size must be 1, 2, 3 or 4.
func SplitLengthPrefixed(b []byte, size int) ([][]byte, error) {
	if size < 1 || size > 4 {
		return nil, fmt.Errorf("nal: unsupported length size %d", size)
	}
	var nalus [][]byte
	for pos := 0; pos < len(b); {
		if len(b)-pos < size {
			return nalus, fmt.Errorf("%w: %d trailing bytes at %d", ErrBadLength, len(b)-pos, pos)
		}
		var l int
		switch size {
		case 1:
			l = int(pio.U8(b[pos:]))
		case 2:
			l = int(pio.U16BE(b[pos:]))
		case 3:
			l = int(pio.U24BE(b[pos:]))
		default:
			l = int(pio.U32BE(b[pos:]))
		}
		pos += size
		if l > len(b)-pos {
			return nalus, fmt.Errorf("%w: unit of %d bytes at %d, %d left", ErrBadLength, l, pos, len(b)-pos)
		}
		if l > 0 {
			nalus = append(nalus, b[pos:pos+l])
		}
		pos += l
	}
	return nalus, nil
}

// startCode returns the length of the start code at pos, or 0.
func startCode(b []byte, pos int) int {
	if pos+2 >= len(b) || b[pos] != 0 {
		return 0
	}
	switch pio.U24BE(b[pos:]) {
	case 1:
		return 3 //nolint:mnd
	case 0:
		if pos+3 < len(b) && b[pos+3] == 1 {
			return 4 //nolint:mnd
		}
	}
	return 0
}

// SplitAnnexB splits a start-code delimited buffer.
func SplitAnnexB(b []byte) [][]byte {
	var nalus [][]byte
	start := -1
	for pos := 0; pos < len(b); {
		if n := startCode(b, pos); n > 0 {
			if start >= 0 && pos > start {
				nalus = append(nalus, b[start:pos])
			}
			pos += n
			start = pos
			continue
		}
		pos++
	}
	if start >= 0 && start < len(b) {
		nalus = append(nalus, b[start:])
	}
	return nalus
}

// SplitNALUs guesses the framing of b and splits it. A buffer that parses
// cleanly as 4-byte length prefixed is taken as AVCC.
func SplitNALUs(b []byte) ([][]byte, Framing) {
	if len(b) < MinNaluSize {
		return [][]byte{b}, Raw
	}
	if nalus, err := SplitLengthPrefixed(b, MinNaluSize); err == nil && len(nalus) > 0 {
		return nalus, AVCC
	}
	if startCode(b, 0) > 0 {
		return SplitAnnexB(b), AnnexB
	}
	return [][]byte{b}, Raw
}
