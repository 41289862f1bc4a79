package csvcodec

import "strings"

// Encode renders a header row and data rows as CSV text. Fields containing a
// comma, quote, or line break are quoted, with embedded quotes doubled, so
// decoding the output reproduces the input fields exactly.
func Encode(header []string, rows [][]string) string {
	var b strings.Builder

	writeRow(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}

	return b.String()
}

func writeRow(b *strings.Builder, row []string) {
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(b, field)
	}
}

func writeField(b *strings.Builder, field string) {
	if !strings.ContainsAny(field, ",\"\n\r") {
		b.WriteString(field)
		return
	}

	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(field, `"`, `""`))
	b.WriteByte('"')
}
