package media

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nyumbani/backend/internal/infrastructure/config"
)

// UploadResult describes the hosted copy of one uploaded image
type UploadResult struct {
	FileName  string `json:"file_name"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	Error     string `json:"error,omitempty"`
}

// File is one image to upload
type File struct {
	Name    string
	Content []byte
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CloudinaryClient uploads property images to Cloudinary's unsigned
// upload endpoint
type CloudinaryClient struct {
	client *resty.Client
	cfg    config.CloudinaryConfig
	logger *zap.Logger
}

// NewCloudinaryClient creates a Cloudinary upload client. Each file gets its
// own timeout so one slow upload cannot stall the rest of a batch.
func NewCloudinaryClient(cfg config.CloudinaryConfig, logger *zap.Logger) *CloudinaryClient {
	client := resty.New().
		SetBaseURL(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", cfg.CloudName)).
		SetTimeout(cfg.UploadTimeout).
		SetRetryCount(0)

	return &CloudinaryClient{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Upload uploads one image and returns its hosted URL
func (c *CloudinaryClient) Upload(ctx context.Context, file File) (*UploadResult, error) {
	var body uploadResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, bytes.NewReader(file.Content)).
		SetFormData(map[string]string{
			"upload_preset": c.cfg.UploadPreset,
			"folder":        c.cfg.Folder,
		}).
		SetResult(&body).
		SetError(&body).
		Post("/image/upload")
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.IsError() {
		msg := body.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("cloudinary upload rejected: %s", msg)
	}

	return &UploadResult{
		FileName:  file.Name,
		SecureURL: body.SecureURL,
		PublicID:  body.PublicID,
		Width:     body.Width,
		Height:    body.Height,
		Bytes:     body.Bytes,
	}, nil
}

// UploadBatch uploads files concurrently. A failed or timed-out file is
// reported in its result slot without aborting the others; results keep the
// input order.
func (c *CloudinaryClient) UploadBatch(ctx context.Context, files []File) []UploadResult {
	results := make([]UploadResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file File) {
			defer wg.Done()

			res, err := c.Upload(ctx, file)
			if err != nil {
				c.logger.Warn("image upload failed",
					zap.String("file", file.Name),
					zap.Error(err))
				results[i] = UploadResult{FileName: file.Name, Error: err.Error()}
				return
			}
			results[i] = *res
		}(i, file)
	}
	wg.Wait()

	return results
}
