package svg

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.3
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 4.0
	fontSizeMax     = 24.0
)

// fontSize fits a single line of n characters into a w×h card.
func fontSize(w, h float64, n int) float64 {
	n = max(1, n)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label so that it fits a card of width w at size.
func truncate(label string, w, size float64) string {
	maxChars := max(3, int(w*fontWidthRatio/(size*fontCharWidth)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
