package content

import "bytes"

// DefaultSampleSize is how many leading bytes are inspected, the same window git uses.
const DefaultSampleSize = 8000

// wideBOMs mark UTF-16 and UTF-32 text, which is full of NUL bytes.
// UTF-32LE (FF FE 00 00) shares its prefix with UTF-16LE.
var wideBOMs = [][]byte{
	{0xFF, 0xFE},
	{0xFE, 0xFF},
	{0x00, 0x00, 0xFE, 0xFF},
}

// HasWideBOM reports whether data starts with a UTF-16 or UTF-32 byte order mark.
func HasWideBOM(data []byte) bool {
	for _, bom := range wideBOMs {
		if bytes.HasPrefix(data, bom) {
			return true
		}
	}
	return false
}

// IsBinaryContent reports whether data looks binary: a NUL byte within the
// first DefaultSampleSize bytes, unless data opens with a wide-text BOM.
func IsBinaryContent(data []byte) bool {
	return IsBinarySample(data, DefaultSampleSize)
}

// IsBinarySample is IsBinaryContent with an explicit sample size.
func IsBinarySample(data []byte, sample int) bool {
	if HasWideBOM(data) {
		return false
	}
	return bytes.IndexByte(data[:min(len(data), sample)], 0) >= 0
}
