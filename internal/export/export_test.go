package export

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = Table{
	Title:   "DOCUMENTS Report",
	Headers: []string{"Title", "Tags", "Remarks"},
	Rows: [][]string{
		{"report.pdf", "finance, q1", `said "urgent"`},
		{"memo <draft>.docx", "", "a & b"},
	},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"xlsx": FormatXLSX, "PDF": FormatPDF, " docx ": FormatDOCX, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("odt")
	assert.Error(t, err)

	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestCell(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "", Cell(nil, loc))
	assert.Equal(t, "x", Cell("x", loc))
	assert.Equal(t, "500000", Cell(int64(500000), loc))
	assert.Equal(t, "2026-01-02 03:04:05", Cell(ts, loc))
	assert.Equal(t, "a, b", Cell([]string{"a", "b"}, loc))
	assert.Equal(t, "a, 2", Cell([]any{"a", float64(2)}, loc))
	assert.Equal(t, `{"title":"r.pdf"}`, Cell(map[string]any{"title": "r.pdf"}, loc))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	want := `"Title","Tags","Remarks"` + "\n" +
		`"report.pdf","finance, q1","said ""urgent"""` + "\n" +
		`"memo <draft>.docx","","a & b"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sample))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sample.Headers, rows[0])
	assert.Equal(t, "report.pdf", rows[1][0])
	assert.Equal(t, `said "urgent"`, rows[1][2])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	long := Table{Title: sample.Title, Headers: sample.Headers}
	for i := 0; i < 80; i++ {
		long.Rows = append(long.Rows, []string{"a very long title that will not fit in the column at all, not even close", "x", "y"})
	}
	require.NoError(t, Write(&buf, FormatPDF, long))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteDOCX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatDOCX, sample))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "[Content_Types].xml")
	require.Contains(t, names, "word/document.xml")

	rc, err := names["word/document.xml"].Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)

	doc := string(body)
	assert.Regexp(t, `<w:pStyle w:val="Heading1"\s*/>`, doc)
	assert.Contains(t, doc, "DOCUMENTS Report")
	assert.Contains(t, doc, "memo &lt;draft&gt;.docx")
	assert.Contains(t, doc, "a &amp; b")
	assert.Len(t, regexp.MustCompile(`<w:tbl[ >]`).FindAllString(doc, -1), 1)
	// header row plus two data rows
	assert.Len(t, regexp.MustCompile(`<w:tr[ >]`).FindAllString(doc, -1), 3)
}
