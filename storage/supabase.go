package storage

import (
	"fmt"
	"mime/multipart"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// Supabase uploads to a public Supabase Storage bucket
type Supabase struct {
	client  *storage_go.Client
	baseURL string
	bucket  string
}

func NewSupabase(url, key, bucket string) *Supabase {
	url = strings.TrimRight(url, "/")
	return &Supabase{
		client:  storage_go.NewClient(url+"/storage/v1", key, nil),
		baseURL: url,
		bucket:  bucket,
	}
}

func (s *Supabase) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	objectPath := objectName(folder, file.Filename)
	contentType := file.Header.Get("Content-Type")
	options := storage_go.FileOptions{
		ContentType: &contentType,
	}

	if _, err := s.client.UploadFile(s.bucket, objectPath, src, options); err != nil {
		return "", "", fmt.Errorf("supabase upload: %w", err)
	}

	return s.PublicURL(objectPath), objectPath, nil
}

func (s *Supabase) Delete(objectID string) error {
	if objectID == "" {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{objectID}); err != nil {
		return fmt.Errorf("supabase remove: %w", err)
	}
	return nil
}

// PublicURL is the CDN address of an object in the bucket
func (s *Supabase) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}
