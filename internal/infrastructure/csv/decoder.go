package csvcodec

// Record is one decoded data row keyed by the header row's column names.
type Record map[string]string

// Get returns the value for a column by header name
func (r Record) Get(header string) string {
	return r[header]
}

// Decoder is a single-pass CSV scanner. It keeps three pieces of state:
// the current field, the current row, and whether the scanner is inside a
// quoted field.
type Decoder struct {
	field    []rune
	row      []string
	rows     [][]string
	inQuotes bool
}

// NewDecoder creates a new Decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// scan runs the scanner over the whole input and returns the raw rows.
// Rules: a quote toggles quoted mode unless doubled inside quotes, where it
// decodes to a literal quote. Inside quotes, commas and newlines are field
// content. Outside quotes, a comma ends the field and a newline ends the row;
// a bare carriage return is dropped so CRLF input behaves like LF. Rows whose
// fields are all blank are discarded.
func (d *Decoder) scan(content string) ([][]string, error) {
	runes := []rune(content)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if d.inQuotes {
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					d.field = append(d.field, '"')
					i++
				} else {
					d.inQuotes = false
				}
			} else {
				d.field = append(d.field, ch)
			}
			continue
		}

		switch ch {
		case '"':
			d.inQuotes = true
		case ',':
			d.endField()
		case '\n':
			d.endField()
			d.endRow()
		case '\r':
			// ignored
		default:
			d.field = append(d.field, ch)
		}
	}

	if d.inQuotes {
		return nil, ErrUnterminatedQuote
	}

	// Flush the trailing row if the input did not end with a newline
	d.endField()
	d.endRow()

	return d.rows, nil
}

func (d *Decoder) endField() {
	d.row = append(d.row, string(d.field))
	d.field = d.field[:0]
}

func (d *Decoder) endRow() {
	if rowHasContent(d.row) {
		d.rows = append(d.rows, d.row)
	}
	d.row = nil
}

func rowHasContent(row []string) bool {
	for _, v := range row {
		if trimBlank(v) != "" {
			return true
		}
	}
	return false
}

func trimBlank(s string) string {
	start, end := 0, len(s)
	for start < end && isBlank(s[start]) {
		start++
	}
	for end > start && isBlank(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Decode parses raw CSV bytes into records. The first decoded row is the
// header; every following row is zipped against it by position. Columns a
// short row does not supply map to the empty string. Empty input yields no
// records.
func Decode(data []byte) ([]Record, error) {
	content := string(data)
	if trimBlank(content) == "" {
		return nil, nil
	}

	rows, err := NewDecoder().scan(content)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}
