package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
)

// Store writes an object and returns the URL it can be fetched from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Close() error
}

// Default is nil until cmd wires a bucket; uploads are refused without one.
var Default Store

// ObjectKey builds "<unix-millis>_<basename>" for an uploaded file name.
func ObjectKey(now time.Time, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	base = strings.Join(strings.Fields(base), "_")
	return fmt.Sprintf("%d_%s", now.UnixMilli(), base)
}

func PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, url.PathEscape(key))
}
