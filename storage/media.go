package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrMediaNotFound   = errors.New("media file not found")
	ErrInvalidPath     = errors.New("invalid media path")
	ErrMediaDirMissing = errors.New("Songs directory not found")
)

// MediaObject 一个可读取的媒体文件
type MediaObject struct {
	Body        io.ReadSeekCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// MediaStore 歌曲文件的存储后端，FilePath 相对于存储根目录解析
type MediaStore interface {
	Open(ctx context.Context, filePath string) (*MediaObject, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".webm": "audio/webm",
}

// DetectContentType 根据扩展名推断内容类型
func DetectContentType(name string) string {
	if ct, ok := audioContentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// CleanKey normalises a client supplied FilePath into a slash separated key
// that cannot climb above the store root.
func CleanKey(filePath string) (string, error) {
	p := strings.ReplaceAll(filePath, "\\", "/")
	if p == "" || strings.ContainsRune(p, 0) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" || key == "." {
		return "", ErrInvalidPath
	}
	return key, nil
}
