package selection

import "unicode/utf16"

// sliceSelection cuts [start, end) out of UTF-16 text, the unit edit
// controls report selection offsets in. Out-of-range offsets yield "".
func sliceSelection(text []uint16, start, end uint32) string {
	if end <= start || int(end) > len(text) {
		return ""
	}
	return string(utf16.Decode(text[start:end]))
}
