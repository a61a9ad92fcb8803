// Package filestore keeps an audit copy of every uploaded payroll file on
// local disk.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "fairworkly/pkg/domain-errors"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Local stores uploads under a root directory. Files are uuid-prefixed so
// repeated uploads of the same filename never collide; the sanitized original
// name is kept for operators digging through the directory.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "file storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "failed to create file storage root")
	}
	return &Local{root: root}, nil
}

// Store writes the stream to disk and returns the stored path.
func (l *Local) Store(ctx context.Context, r io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitize(filename))
	path := filepath.Join(l.root, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

// sanitize keeps the stored name shell- and path-safe.
func sanitize(filename string) string {
	base := filepath.Base(filename)
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}
