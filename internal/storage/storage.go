// Package storage contains the object storage abstraction used for document bytes and the
// S3-compatible implementation behind it. Objects are streamed; nothing touches local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strconv"
	"strings"
	"time"
)

const defaultContentType = "application/octet-stream"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 to let the backend chunk the stream.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns the object's info, or ErrObjectNotFound when the key is free.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// Ping verifies the bucket is reachable.
	Ping(ctx context.Context) error
}

// ObjectKey builds the key a document's bytes are stored under: "{ownerID}/{epochMillis}.{ext}",
// where ext is the text after the last dot of the original filename. A filename without any dot
// keeps its whole base name as the suffix ("{ownerID}/{epochMillis}.README"); a trailing dot
// yields "{ownerID}/{epochMillis}".
func ObjectKey(ownerID string, at time.Time, filename string) string {
	key := ownerID + "/" + strconv.FormatInt(at.UnixMilli(), 10)
	base := baseName(filename)
	switch {
	case base == "" || base == "." || base == "/":
	case !strings.Contains(base, "."):
		key += "." + base
	default:
		if ext := Extension(base); ext != "" {
			key += "." + ext
		}
	}
	return key
}

func baseName(filename string) string {
	return path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
}

// Extension returns the text after the last dot of the base filename, or "" when there is none.
func Extension(filename string) string {
	base := baseName(filename)
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return base[i+1:]
}

// ContentTypeFor picks the declared content type, falling back to the filename extension and then
// to application/octet-stream.
func ContentTypeFor(declared, filename string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if ext := Extension(filename); ext != "" {
		if ct := mime.TypeByExtension("." + strings.ToLower(ext)); ct != "" {
			if mt, _, err := mime.ParseMediaType(ct); err == nil {
				return mt
			}
			return ct
		}
	}
	return defaultContentType
}

// ErrObjectNotFound is returned by Get and Stat when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")
