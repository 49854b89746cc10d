package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"OfflinePlayer/logger"

	"github.com/fsnotify/fsnotify"
)

// LocalStore 以本地目录作为媒体存储，并用 fsnotify 维护目录下的文件名索引
type LocalStore struct {
	root string

	mu      sync.RWMutex
	names   map[string]struct{}
	indexed bool
}

// NewLocalStore creates a store rooted at dir. The directory does not have to exist yet.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir, names: make(map[string]struct{})}
}

// Root returns the media directory.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) resolve(filePath string) (string, error) {
	key, err := CleanKey(filePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *LocalStore) Open(ctx context.Context, filePath string) (*MediaObject, error) {
	full, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrMediaNotFound
	}
	return &MediaObject{
		Body:        f,
		Size:        info.Size(),
		ContentType: DetectContentType(full),
		ModTime:     info.ModTime(),
	}, nil
}

// List returns the entry names directly under the media directory whose name
// starts with prefix. It serves from the watch index once Watch is running.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	indexed := s.indexed
	var names []string
	if indexed {
		for name := range s.names {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
	}
	s.mu.RUnlock()

	if !indexed {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ErrMediaDirMissing
			}
			return nil, fmt.Errorf("read media dir: %w", err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), prefix) {
				names = append(names, e.Name())
			}
		}
	}

	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

// Watch 初始化索引并监听目录变化，直到 ctx 结束。目录不存在时返回 ErrMediaDirMissing。
func (s *LocalStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.root); err != nil {
		watcher.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return ErrMediaDirMissing
		}
		return fmt.Errorf("watch %s: %w", s.root, err)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("read media dir: %w", err)
	}
	s.mu.Lock()
	for _, e := range entries {
		s.names[e.Name()] = struct{}{}
	}
	s.indexed = true
	s.mu.Unlock()

	go func() {
		defer watcher.Close()
		defer func() {
			s.mu.Lock()
			s.indexed = false
			s.names = make(map[string]struct{})
			s.mu.Unlock()
		}()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.apply(event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("media watcher error", logger.ErrorField(err))
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *LocalStore) apply(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		s.names[name] = struct{}{}
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(s.names, name)
	}
	logger.Debug("media dir changed", logger.String("file", name), logger.String("op", event.Op.String()))
}
