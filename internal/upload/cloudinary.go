package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var _ Uploader = (*Cloudinary)(nil)

// Cloudinary uploads files as "raw" resources, which is what Cloudinary uses
// for anything that is not an image or video.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

func NewCloudinary(cloudName, apiKey, apiSecret string, logger *slog.Logger) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("upload: cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("upload: configuring cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, logger: logger}, nil
}

// Upload sends file to Cloudinary. The SDK reports API-level failures in the
// result rather than as an error, so both paths are checked.
func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, dst Destination) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		ResourceType: "raw",
		Folder:       dst.Folder,
		PublicID:     dst.PublicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	c.logger.Debug("file uploaded",
		"public_id", resp.PublicID,
		"bytes", resp.Bytes,
	)
	return resp.SecureURL, nil
}
