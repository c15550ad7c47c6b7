// Package media uploads product images to a hosted CDN and deletes them
// when products go away. Deletion is best-effort: callers log failures and
// move on, they never fail the primary operation over an orphaned image.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/veloradesign/velorabackend/config"
)

// Asset is what the host hands back for an uploaded file.
type Asset struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"publicId"`
	FileName string `json:"fileName"`
}

// Host uploads under the configured base folder; a non-empty slug scopes
// the asset into a per-product subfolder.
type Host interface {
	Upload(ctx context.Context, r io.Reader, fileName, slug string) (*Asset, error)
	Delete(ctx context.Context, publicIDs []string) error
}

// assetFolder joins the base folder with the product slug, tolerating
// either part being empty.
func assetFolder(base, slug string) string {
	parts := make([]string, 0, 2)
	if base != "" {
		parts = append(parts, base)
	}
	if slug != "" {
		parts = append(parts, slug)
	}
	return strings.Join(parts, "/")
}

// NewHost builds the configured backend.
func NewHost(ctx context.Context, cfg config.MediaConfig) (Host, error) {
	switch cfg.Backend {
	case "cloudinary":
		return NewCloudinaryHost(cfg.CloudinaryURL, cfg.UploadFolder)
	case "gcs":
		return NewGCSHost(ctx, cfg.GCSBucket, cfg.GCSCredentials, cfg.UploadFolder)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
