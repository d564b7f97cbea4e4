package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"worksheet_arc_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 导出 PDF 的归档存储接口
type StorageProvider interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
	GetURL(objectKey string) string
}

func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case "minio":
		return NewMinioStorageProvider(cfg)
	case "local", "":
		return &LocalStorageProvider{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// LocalStorageProvider 本地存储实现，开发环境默认
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectKey)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(objectKey), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectKey string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, objectKey))
}

func (p *LocalStorageProvider) GetURL(objectKey string) string {
	return "/exports/" + objectKey
}

// MinioStorageProvider MinIO 存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectKey), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectKey string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, objectKey, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(objectKey string) string {
	return "/" + p.Config.MinioBucket + "/" + objectKey
}
