package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := notFound(minio.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NoSuchKey"}, "user-1/1.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.EqualError(t, err, "object not found: user-1/1.pdf")

	denied := minio.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied"}
	assert.Equal(t, error(denied), notFound(denied, "user-1/1.pdf"))

	boom := errors.New("dial tcp: refused")
	assert.Equal(t, boom, notFound(boom, "k"))
}

func TestObjectInfo(t *testing.T) {
	info := objectInfo("user-1/1.pdf", minio.ObjectInfo{
		Size:         42,
		ETag:         "abc",
		ContentType:  "application/pdf",
		UserMetadata: map[string]string{"original-filename": "memo.pdf"},
	})
	assert.Equal(t, ObjectInfo{
		Key:         "user-1/1.pdf",
		Size:        42,
		ETag:        "abc",
		ContentType: "application/pdf",
		Metadata:    map[string]string{"original-filename": "memo.pdf"},
	}, info)
}
