package commands

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"servicepro/internal/domain"
)

// readAttachment loads path as an upload part.
func readAttachment(path string) (*domain.File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	return &domain.File{Name: filepath.Base(path), ContentType: ct, Content: b}, nil
}

// optionalAttachment is readAttachment for flags that may be empty.
func optionalAttachment(path string) (*domain.File, error) {
	if path == "" {
		return nil, nil
	}
	return readAttachment(path)
}

// splitPair parses "key=value".
func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return k, v, nil
}
