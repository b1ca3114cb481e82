package storage

import (
	"fmt"
	"lms/config"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores uploaded files and returns a URL clients can fetch them from.
// objectID identifies the stored file for later deletion.
type Uploader interface {
	Upload(file *multipart.FileHeader, folder string) (url string, objectID string, err error)
	Delete(objectID string) error
}

// Default is the uploader used by the controllers
var Default Uploader

// Init builds Default from configuration
func Init(cfg *config.Config) {
	switch cfg.StorageDriver {
	case "supabase":
		Default = NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		log.Printf("[STORAGE] Using Supabase bucket %q", cfg.SupabaseBucket)
	default:
		Default = NewLocal(cfg.UploadDir, "/uploads")
		log.Printf("[STORAGE] Using local directory %s", cfg.UploadDir)
	}
}

// objectName builds folder/<uuid><ext> for an uploaded file
func objectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)
}

// allowed file types per upload folder
var allowedExt = map[string][]string{
	"images":  {".jpg", ".jpeg", ".png", ".webp", ".gif"},
	"videos":  {".mp4", ".webm", ".mov", ".mkv"},
	"resumes": {".pdf", ".doc", ".docx"},
}

// CheckType rejects files whose extension does not fit the upload folder
func CheckType(file *multipart.FileHeader, folder string) error {
	exts, ok := allowedExt[folder]
	if !ok {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, e := range exts {
		if e == ext {
			return nil
		}
	}
	return fmt.Errorf("file type %q is not allowed, expected one of %s", ext, strings.Join(exts, ", "))
}
