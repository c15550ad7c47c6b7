package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryHost(cloudURL, folder string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryHost{cld: cld, folder: folder}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, r io.Reader, fileName, slug string) (*Asset, error) {
	res, err := h.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       assetFolder(h.folder, slug),
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	return &Asset{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		FileName: fileName,
	}, nil
}

func (h *CloudinaryHost) Delete(ctx context.Context, publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}
	_, err := h.cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{
		PublicIDs: api.CldAPIArray(publicIDs),
	})
	if err != nil {
		return fmt.Errorf("cloudinary delete: %w", err)
	}
	return nil
}
