package medcsv

import (
	"strings"

	"github.com/careloop/careloop/internal/record"
)

// Write serializes medication entries to CSV text: the fixed header line,
// then one line per record.
//
// Each field is escaped independently: a field containing a comma, a quote,
// or a newline character is wrapped in double quotes with internal quotes
// doubled; every other field is emitted verbatim. For any record set whose
// fields contain no literal newline, Parse(Write(records)).Records equals
// records field for field.
func Write(records []record.MedicationEntry) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, rec := range records {
		AppendRecord(&b, rec)
	}
	return b.String()
}

// AppendRecord writes one record as a CSV line, escaping each field the way
// Write does. Callers building CSV incrementally append records to their own
// builder after writing Header themselves.
func AppendRecord(b *strings.Builder, rec record.MedicationEntry) {
	fields := [fieldCount]string{
		rec.Medication,
		rec.Dose,
		rec.Frequency,
		rec.StartDate,
		rec.EndDate,
		rec.Notes,
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// escapeField quotes a field only when it needs it.
func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
