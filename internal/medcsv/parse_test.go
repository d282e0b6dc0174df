package medcsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/careloop/internal/record"
)

func TestParse_HeaderCaseInsensitive(t *testing.T) {
	tests := []struct {
		name   string
		header string
		valid  bool
	}{
		{"exact", "medication,dose,frequency,start_date,end_date,notes", true},
		{"upper", "MEDICATION,DOSE,FREQUENCY,START_DATE,END_DATE,NOTES", true},
		{"mixed", "Medication,Dose,Frequency,Start_Date,End_Date,Notes", true},
		{"reordered", "dose,medication,frequency,start_date,end_date,notes", false},
		{"missing column", "medication,dose,frequency,start_date,end_date", false},
		{"extra column", "medication,dose,frequency,start_date,end_date,notes,extra", false},
		{"spaces between columns", "medication, dose, frequency, start_date, end_date, notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.header + "\n")
			assert.Equal(t, tt.valid, res.HeaderValid)
			if tt.valid {
				assert.Nil(t, res.Err)
			} else {
				require.NotNil(t, res.Err)
				assert.Equal(t, ErrCodeBadHeader, res.Err.Code)
				assert.Contains(t, res.Err.Message, Header, "error must name the required header")
				assert.Empty(t, res.Records)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n", "\r\n", "   \n\t\n"} {
		res := Parse(text)
		assert.False(t, res.HeaderValid)
		require.NotNil(t, res.Err)
		assert.Equal(t, ErrCodeEmptyInput, res.Err.Code)
		assert.Empty(t, res.Records)
	}
}

func TestParse_DataRows(t *testing.T) {
	text := Header + "\n" +
		"Metformin,500mg,twice daily,2024-01-01,,with food\n" +
		"Lisinopril,10mg,daily,2024-02-15,2024-08-01,\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	require.Len(t, res.Records, 2)

	assert.Equal(t, record.MedicationEntry{
		Medication: "Metformin",
		Dose:       "500mg",
		Frequency:  "twice daily",
		StartDate:  "2024-01-01",
		EndDate:    "",
		Notes:      "with food",
	}, res.Records[0])
	assert.Equal(t, "Lisinopril", res.Records[1].Medication)
	assert.Equal(t, "2024-08-01", res.Records[1].EndDate)
}

func TestParse_ShortRowSkippedSilently(t *testing.T) {
	text := Header + "\n" +
		"Metformin,500mg,twice daily,2024-01-01,,ok\n" +
		"only,four,columns,here\n" +
		"Aspirin,81mg,daily,2024-03-01,,\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	assert.Nil(t, res.Err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Metformin", res.Records[0].Medication)
	assert.Equal(t, "Aspirin", res.Records[1].Medication)
}

func TestParse_ExtraColumnsTruncated(t *testing.T) {
	text := Header + "\n" +
		"Metformin,500mg,twice daily,2024-01-01,,note,unexpected,trailing\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "note", res.Records[0].Notes)
}

func TestParse_BlankLinesDropped(t *testing.T) {
	text := "\n\n" + Header + "\n\n" +
		"Metformin,500mg,twice daily,2024-01-01,,\n" +
		"   \n" +
		"Aspirin,81mg,daily,2024-03-01,,\n\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	assert.Len(t, res.Records, 2)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	text := Header + "\r\n" +
		"Metformin,500mg,twice daily,2024-01-01,,\r\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "", res.Records[0].Notes, "trailing CR must not leak into the last field")
}

func TestParse_EmptyMedicationAccepted(t *testing.T) {
	// Current leniency: an empty medication name still produces a row.
	text := Header + "\n" +
		",500mg,daily,2024-01-01,,\n"

	res := Parse(text)
	require.True(t, res.HeaderValid)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "", res.Records[0].Medication)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}},
		{"doubled quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"quote mid-field tolerated", `a"b,c`, []string{"ab,c"}},
		{"unterminated quote tolerated", `"abc,def`, []string{"abc,def"}},
		{"quoted empty", `"",x`, []string{"", "x"}},
		{"whole field quoted value", `"""hello""",x`, []string{`"hello"`, "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitFields(tt.line))
		})
	}
}
