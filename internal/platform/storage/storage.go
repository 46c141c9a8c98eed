package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Service stores signature images on the local filesystem and serves them
// under /signatures. The workflow treats stored artifacts as opaque and
// immutable; nothing here ever overwrites or deletes.
type Service struct {
	Dir string
}

func New(dir string) *Service {
	return &Service{Dir: dir}
}

func (s *Service) Save(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty artifact")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name = filepath.Base(name)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/signatures/" + name, nil
}

// DecodeDataURL extracts the raw bytes from a browser canvas export like
// "data:image/png;base64,...".
func DecodeDataURL(dataURL string) ([]byte, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("not a data url")
	}
	idx := strings.Index(dataURL, marker)
	if idx < 0 {
		return nil, fmt.Errorf("data url is not base64 encoded")
	}
	decoded, err := base64.StdEncoding.DecodeString(dataURL[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("data url carries no payload")
	}
	return decoded, nil
}
