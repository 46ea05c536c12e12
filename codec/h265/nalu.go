package h265

// NAL unit types the parser cares about.
const (
	NaluBlaWLp    = 16
	NaluCRA       = 21
	NaluVPS       = 32
	NaluSPS       = 33
	NaluPPS       = 34
	NaluAUD       = 35
	NaluPrefixSEI = 39
)

// NALUType returns the nal_unit_type of a NALU.
func NALUType(nalu []byte) uint8 {
	if len(nalu) == 0 {
		return 0
	}
	return (nalu[0] >> 1) & maskArrayNALUType
}

// IsKey reports whether naluType is an IRAP slice (BLA, IDR or CRA).
func IsKey(naluType uint8) bool {
	return naluType >= NaluBlaWLp && naluType <= NaluCRA
}

// IsKeyFrame reports whether any NALU of a sample is an IRAP slice.
func IsKeyFrame(nalus [][]byte) bool {
	for _, n := range nalus {
		if IsKey(NALUType(n)) {
			return true
		}
	}
	return false
}
