package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, folder string) (string, error)
}

type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	// PublicURL overrides the https://<bucket>.<endpoint host> base of returned links.
	PublicURL string
}

type S3Uploader struct {
	client *s3.S3
	cfg    S3Config
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: empty bucket")
	}
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &S3Uploader{client: s3.New(sess), cfg: cfg}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	key := path.Join(folder, fileName)

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(http.DetectContentType(data)),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.cfg.PublicURL != "" {
		return strings.TrimRight(u.cfg.PublicURL, "/") + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(u.cfg.Endpoint, "https://"), "http://")
	if host == "" {
		host = fmt.Sprintf("s3.%s.amazonaws.com", u.cfg.Region)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.cfg.Bucket, host, key)
}

// DecodeDataURL splits a "data:<mime>;base64,<payload>" string into its bytes and extension.
func DecodeDataURL(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", errors.New("not a data url")
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, "", errors.New("malformed data url")
	}
	meta := s[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("data url is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("decode data url: %w", err)
	}

	ext := ".bin"
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		ext = ".png"
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	case "image/svg+xml":
		ext = ".svg"
	}
	return data, ext, nil
}
