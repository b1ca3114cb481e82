package storage

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Local writes uploads under a directory served statically at urlPrefix
type Local struct {
	dir       string
	urlPrefix string
}

func NewLocal(dir, urlPrefix string) *Local {
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	name := objectName(folder, file.Filename)
	filePath := filepath.Join(l.dir, filepath.FromSlash(name))

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", "", err
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}

	return l.urlPrefix + "/" + name, name, nil
}

func (l *Local) Delete(objectID string) error {
	if objectID == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(objectID))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return errors.New("invalid object id")
	}
	err := os.Remove(filepath.Join(l.dir, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
