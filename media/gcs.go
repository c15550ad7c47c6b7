package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSHost stores images as public bucket objects. The object name doubles
// as the asset's publicId, so deletion needs no URL parsing.
type GCSHost struct {
	client *storage.Client
	bucket string
	folder string
}

func NewGCSHost(ctx context.Context, bucket, credentialsFile, folder string) (*GCSHost, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSHost{client: client, bucket: bucket, folder: folder}, nil
}

func (h *GCSHost) Upload(ctx context.Context, r io.Reader, fileName, slug string) (*Asset, error) {
	objectName := objectName(assetFolder(h.folder, slug), fileName)

	w := h.client.Bucket(h.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}

	return &Asset{
		URL:      fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.bucket, objectName),
		PublicID: objectName,
		FileName: fileName,
	}, nil
}

// objectName builds a unique object path under the folder, keeping the
// original extension.
func objectName(folder, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.New().String() + ext
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func (h *GCSHost) Delete(ctx context.Context, publicIDs []string) error {
	var firstErr error
	for _, obj := range publicIDs {
		if obj == "" {
			continue
		}
		if err := h.client.Bucket(h.bucket).Object(obj).Delete(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (h *GCSHost) Close() error {
	return h.client.Close()
}
