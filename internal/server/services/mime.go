package services

import (
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// inferMimeType maps a file name to a bare media type, e.g. "q1.pdf" to
// "application/pdf". Parameters such as charset are dropped.
func inferMimeType(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return common.DefaultMimeType
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return common.DefaultMimeType
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return common.DefaultMimeType
	}
	return mt
}
