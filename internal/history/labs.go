package history

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/careloop/careloop/internal/bodymap"
	"github.com/careloop/careloop/internal/medcsv"
	"github.com/careloop/careloop/internal/record"
)

// LabsHeader is the mandatory first line of a labs CSV.
const LabsHeader = "test_name,test_date,test_value,unit"

const labsFieldCount = 4

const labDateLayout = "2006-01-02"

// LoadLabs parses a labs CSV stream and classifies each value against the
// reference ranges in m.
//
// The dialect is the medication CSV dialect (same splitter, same blank-line
// and short-row leniency). A non-numeric value yields a row with value NaN
// and status unknown; a row whose date does not parse as YYYY-MM-DD is
// skipped. Results keep file order.
func LoadLabs(r io.Reader, m *bodymap.Map) ([]record.LabResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read labs: %w", err)
	}

	lines := splitLabLines(string(raw))
	if len(lines) == 0 {
		return nil, &medcsv.ValidationError{
			Code:    medcsv.ErrCodeEmptyInput,
			Message: fmt.Sprintf("no data: labs CSV must start with the header %q", LabsHeader),
		}
	}
	if !strings.EqualFold(strings.TrimSpace(lines[0]), LabsHeader) {
		return nil, &medcsv.ValidationError{
			Code:    medcsv.ErrCodeBadHeader,
			Message: fmt.Sprintf("first line must be the header %q (any letter case)", LabsHeader),
		}
	}

	labs := []record.LabResult{}
	for _, line := range lines[1:] {
		fields := medcsv.SplitFields(line)
		if len(fields) < labsFieldCount {
			continue
		}

		date, err := time.Parse(labDateLayout, strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}

		lab := record.LabResult{
			TestName: strings.TrimSpace(fields[0]),
			Unit:     strings.TrimSpace(fields[3]),
			Date:     date,
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			lab.Value = math.NaN()
		} else {
			lab.Value = value
		}
		lab.Status = Classify(lab.TestName, lab.Value, m)

		labs = append(labs, lab)
	}

	return labs, nil
}

// Classify returns the status of a lab value against its reference range:
// unknown when the value is NaN or no range is on file, otherwise
// low/high/normal.
func Classify(testName string, value float64, m *bodymap.Map) record.LabStatus {
	if math.IsNaN(value) {
		return record.LabStatusUnknown
	}
	r, ok := m.RangeFor(testName)
	if !ok {
		return record.LabStatusUnknown
	}
	switch {
	case value < r.Low:
		return record.LabStatusLow
	case value > r.High:
		return record.LabStatusHigh
	default:
		return record.LabStatusNormal
	}
}

// Abnormal returns only the out-of-range results, keeping order.
func Abnormal(labs []record.LabResult) []record.LabResult {
	out := []record.LabResult{}
	for _, lab := range labs {
		if lab.Status.Abnormal() {
			out = append(out, lab)
		}
	}
	return out
}

// splitLabLines mirrors the medication CSV pre-split: \r?\n line breaks,
// blank lines dropped.
func splitLabLines(text string) []string {
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
