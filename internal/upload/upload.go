package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileTypes maps the accepted image MIME types to the stored extension.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var ErrInvalidImageType = fmt.Errorf("invalid image type")

type Saver struct {
	Dir string
}

func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{Dir: dir}, nil
}

// Save writes the uploaded image to disk and returns the stored file name.
// The name keeps the sanitized original name plus a timestamp so repeated
// uploads never collide.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := fileTypes[fh.Header.Get("Content-Type")]
	if !ok {
		return "", ErrInvalidImageType
	}

	base := strings.ReplaceAll(fh.Filename, " ", "-")
	name := fmt.Sprintf("%s-%d.%s", base, time.Now().UnixMilli(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
