package export

import (
	"fmt"
	"io"

	"github.com/gomutex/godocx"
)

// WriteDOCX writes t as a Word document: a level-1 heading with the title followed by one table
// whose first row holds the bold headers.
func WriteDOCX(w io.Writer, t Table) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("docx new document: %w", err)
	}

	if _, err := doc.AddHeading(t.Title, 1); err != nil {
		return fmt.Errorf("docx heading: %w", err)
	}

	if len(t.Headers) > 0 {
		tbl := doc.AddTable()
		tbl.Style("TableGrid")

		hdr := tbl.AddRow()
		for _, h := range t.Headers {
			hdr.AddCell().AddParagraph("").AddText(h).Bold(true)
		}
		for _, row := range t.Rows {
			r := tbl.AddRow()
			for _, c := range row {
				r.AddCell().AddParagraph(c)
			}
		}
	}

	if err := doc.Write(w); err != nil {
		return fmt.Errorf("docx write: %w", err)
	}
	return nil
}
