package gcs

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/job-tracker-api/internal/application"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
)

const defaultFolder = "job-tracker"

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ErrUnsupportedImage is returned for files that are not common image types.
var ErrUnsupportedImage = apperror.BadRequest("Only jpg, png, gif or webp images are allowed")

// ImageStore keeps profile images in a GCS bucket under folder/<owner>/.
type ImageStore struct {
	client *storage.Client
	bucket string
	folder string
	newID  func() string
}

func NewImageStore(client *storage.Client, bucket, folder string) *ImageStore {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = defaultFolder
	}
	return &ImageStore{client: client, bucket: bucket, folder: folder, newID: uuid.NewString}
}

func objectPath(folder, ownerID, id, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	return path.Join(folder, ownerID, id+ext), nil
}

// Upload stores r and returns its public URL and the object path used as id.
func (s *ImageStore) Upload(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (string, string, error) {
	obj, err := objectPath(s.folder, ownerID, s.newID(), filename)
	if err != nil {
		return "", "", err
	}
	url, err := helpers.UploadObject(ctx, s.client, s.bucket, obj, contentType, r)
	if err != nil {
		return "", "", err
	}
	return url, obj, nil
}

func (s *ImageStore) Delete(ctx context.Context, objectID string) error {
	if objectID == "" {
		return nil
	}
	return helpers.DeleteObject(ctx, s.client, s.bucket, objectID)
}

var _ application.ImageStore = (*ImageStore)(nil)
