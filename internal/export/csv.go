package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes t as UTF-8 CSV with every cell double-quoted and embedded quotes doubled.
// Rows end in "\n". The title is not written.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(c, `"`, `""`))
			bw.WriteByte('"')
		}
		bw.WriteByte('\n')
	}
	writeRow(t.Headers)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return bw.Flush()
}
