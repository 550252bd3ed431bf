package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple extension", "report.pdf", "user-1/1700000000123.pdf"},
		{"last dot wins", "archive.tar.gz", "user-1/1700000000123.gz"},
		{"no dot keeps the whole name", "README", "user-1/1700000000123.README"},
		{"trailing dot", "notes.", "user-1/1700000000123"},
		{"dot in directory only", "scans.v2/README", "user-1/1700000000123.README"},
		{"empty name", "", "user-1/1700000000123"},
		{"windows path", `C:\scans\memo.DOCX`, "user-1/1700000000123.DOCX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey("user-1", at, tt.filename))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("application/pdf", "x.bin"))
	assert.Equal(t, "application/pdf", ContentTypeFor("", "report.PDF"))
	assert.Equal(t, "text/plain", ContentTypeFor(" ", "notes.txt"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("", "blob"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("", "file.zzunknown"))
}
