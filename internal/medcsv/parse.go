package medcsv

import (
	"fmt"
	"strings"

	"github.com/careloop/careloop/internal/record"
)

// Header is the mandatory first line of a medication CSV. Column order is
// fixed; comparison is case-insensitive but no reordering or omission is
// accepted.
const Header = "medication,dose,frequency,start_date,end_date,notes"

// fieldCount is the number of columns in the fixed header.
const fieldCount = 6

// ParseResult holds the outcome of parsing a medication CSV.
//
// HeaderValid is false exactly when Err is non-nil; callers show Err to the
// user and persist nothing. When HeaderValid is true, Records holds every
// accepted data row in input order (short rows are skipped silently).
type ParseResult struct {
	HeaderValid bool
	Records     []record.MedicationEntry
	Err         *ValidationError
}

// Parse converts free-text CSV into medication entries.
//
// Lines are pre-split on \r?\n and blank lines (after trim) are dropped
// before any header or row processing, so leading and trailing blank lines
// are harmless. The first remaining line must be Header (any letter case).
//
// Field content is not trimmed: Parse is the inverse of Write for
// serializer-produced output.
func Parse(text string) *ParseResult {
	lines := splitLines(text)

	if len(lines) == 0 {
		return &ParseResult{
			Records: []record.MedicationEntry{},
			Err: &ValidationError{
				Code:    ErrCodeEmptyInput,
				Message: fmt.Sprintf("no data: paste CSV starting with the header %q", Header),
			},
		}
	}

	if !strings.EqualFold(strings.TrimSpace(lines[0]), Header) {
		return &ParseResult{
			Records: []record.MedicationEntry{},
			Err: &ValidationError{
				Code:    ErrCodeBadHeader,
				Message: fmt.Sprintf("first line must be the header %q (any letter case, columns in this exact order)", Header),
			},
		}
	}

	records := []record.MedicationEntry{}
	for _, line := range lines[1:] {
		fields := SplitFields(line)
		if len(fields) < fieldCount {
			// Lenient-skip policy: a short row is dropped, not an error.
			continue
		}
		records = append(records, record.MedicationEntry{
			Medication: fields[0],
			Dose:       fields[1],
			Frequency:  fields[2],
			StartDate:  fields[3],
			EndDate:    fields[4],
			Notes:      fields[5],
		})
	}

	return &ParseResult{HeaderValid: true, Records: records}
}

// splitLines splits on \r?\n and drops lines that are blank after trimming.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitFields splits a single line into fields on commas outside double
// quotes. Within a quoted field a doubled quote decodes to a literal quote.
// An unmatched quote toggles quote state and is otherwise tolerated; it
// never raises an error.
//
// Because callers pre-split lines, a quote can never capture a newline.
// History CSV loading shares this splitter; the dialect is identical.
func SplitFields(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	fields = append(fields, b.String())

	return fields
}
