// Package imagehost uploads profile pictures to a hosted image service that
// accepts unsigned multipart uploads with an upload preset.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

var (
	// ErrNotImage is returned for uploads whose content type is not image/*.
	ErrNotImage = errors.New("please select an image file")
	// ErrTooLarge is returned for uploads over the configured limit.
	ErrTooLarge = errors.New("file size exceeds the upload limit")
	// ErrNotConfigured is returned when no cloud name or preset is set.
	ErrNotConfigured = errors.New("image host not configured")
)

// Image is a picture ready for upload.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Uploader stores an image and returns its durable URI.
type Uploader interface {
	Upload(ctx context.Context, image Image) (string, error)
}

// Client talks to the image host over HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	cloudName string
	preset    string
	maxBytes  int64
	logger    *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.ImageHostConfig, logger *zap.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout()},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		cloudName: cfg.CloudName,
		preset:    cfg.UploadPreset,
		maxBytes:  cfg.MaxUploadBytes,
		logger:    logger,
	}
}

// Validate checks the content type and size limit without contacting the host.
func Validate(image Image, maxBytes int64) error {
	if !strings.HasPrefix(strings.ToLower(image.ContentType), "image/") {
		return ErrNotImage
	}
	if maxBytes > 0 && int64(len(image.Data)) > maxBytes {
		return ErrTooLarge
	}
	return nil
}

// MaxBytes returns the configured size limit.
func (c *Client) MaxBytes() int64 {
	return c.maxBytes
}

// Upload posts the image and returns the host's secure URL.
func (c *Client) Upload(ctx context.Context, image Image) (string, error) {
	if c.cloudName == "" || c.preset == "" {
		return "", ErrNotConfigured
	}
	if err := Validate(image, c.maxBytes); err != nil {
		return "", err
	}

	body, contentType, err := encodeForm(image, c.preset)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	c.logger.Debug("image upload finished",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(image.Data)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(payload, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("upload image: status %d: %s", resp.StatusCode, msg)
	}

	secureURL := gjson.GetBytes(payload, "secure_url").String()
	if secureURL == "" {
		return "", errors.New("upload image: response missing secure_url")
	}
	return secureURL, nil
}

func encodeForm(image Image, preset string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	fileName := image.FileName
	if fileName == "" {
		fileName = "upload"
	}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", image.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
