package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"OfflinePlayer/config"
	"OfflinePlayer/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore 把歌曲文件放在 MinIO 存储桶里，对象键即 FilePath
type MinioStore struct {
	client *minio.Client
	bucket string
	region string
}

// BucketStats 存储桶统计信息
type BucketStats struct {
	Bucket       string
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
	TypeStats    map[string]int64
}

// NewMinioStore 创建 MinIO 客户端，不做网络请求
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket, region: cfg.MinioRegion}, nil
}

// EnsureBucket 检查存储桶，不存在则创建
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if exists {
		logger.Info("minio bucket ready", logger.String("bucket", s.bucket))
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("创建存储桶失败: %w", err)
	}
	logger.Info("minio bucket created", logger.String("bucket", s.bucket))
	return nil
}

func (s *MinioStore) Open(ctx context.Context, filePath string) (*MediaObject, error) {
	key, err := CleanKey(filePath)
	if err != nil {
		return nil, err
	}

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = DetectContentType(key)
	}
	return &MediaObject{
		Body:        obj,
		Size:        info.Size,
		ContentType: contentType,
		ModTime:     info.LastModified,
	}, nil
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]string, error) {
	names := make([]string, 0)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		names = append(names, object.Key)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = DetectContentType(key)
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("上传 %s 失败: %w", key, err)
	}
	return nil
}

// Stats 汇总存储桶中 prefix 下对象的数量、大小和类型分布
func (s *MinioStore) Stats(ctx context.Context, prefix string) (*BucketStats, error) {
	stats := &BucketStats{Bucket: s.bucket, TypeStats: make(map[string]int64)}
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for object := range s.client.ListObjects(ctx, s.bucket, opts) {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(object.Key), "."))
		if ext == "" {
			ext = "unknown"
		}
		stats.TypeStats[ext]++
		stats.TotalSize += object.Size
		stats.TotalObjects++
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}
	}
	return stats, nil
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// NewMediaStore 按配置选择媒体存储后端
func NewMediaStore(cfg *config.Config) (MediaStore, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendMinio:
		store, err := NewMinioStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.MediaBackendLocal, "":
		return NewLocalStore(cfg.MediaDir), nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}
