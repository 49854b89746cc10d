package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"OfflinePlayer/logger"
	"OfflinePlayer/model"
	"OfflinePlayer/repository"

	"github.com/go-redis/redis/v8"
)

// SongListKey 全量歌曲列表在 Redis 中的键
const SongListKey = "songs:all"

// CachedSongRepository 给 GetSongs 加一层 Redis 读缓存，写操作成功后删除缓存。
// Redis 出错时降级为直接查库，只记日志。
type CachedSongRepository struct {
	next  repository.SongRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedSongRepository wraps next with a Redis read-through cache.
func NewCachedSongRepository(next repository.SongRepository, client *redis.Client, ttl time.Duration) *CachedSongRepository {
	return &CachedSongRepository{next: next, redis: client, ttl: ttl}
}

var _ repository.SongRepository = (*CachedSongRepository)(nil)

func (c *CachedSongRepository) GetSongs(ctx context.Context) ([]model.Song, error) {
	data, err := c.redis.Get(ctx, SongListKey).Bytes()
	switch {
	case err == nil:
		var songs []model.Song
		jsonErr := json.Unmarshal(data, &songs)
		if jsonErr == nil {
			return songs, nil
		}
		logger.Warn("corrupt song list cache", logger.ErrorField(jsonErr))
	case err != redis.Nil:
		logger.Warn("song list cache read failed", logger.ErrorField(err))
	}

	songs, err := c.next.GetSongs(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(songs); err == nil {
		if err := c.redis.Set(ctx, SongListKey, payload, c.ttl).Err(); err != nil {
			logger.Warn("song list cache write failed", logger.ErrorField(err))
		}
	}
	return songs, nil
}

func (c *CachedSongRepository) SearchSongs(ctx context.Context, q repository.SongQuery) ([]model.Song, error) {
	return c.next.SearchSongs(ctx, q)
}

func (c *CachedSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	if err := c.next.CreateSong(ctx, song); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedSongRepository) UpdateSong(ctx context.Context, songID int64, update model.SongUpdate) error {
	if err := c.next.UpdateSong(ctx, songID, update); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedSongRepository) DeleteSong(ctx context.Context, songID int64) error {
	if err := c.next.DeleteSong(ctx, songID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Invalidate 手动清除歌曲列表缓存
func (c *CachedSongRepository) Invalidate(ctx context.Context) error {
	if err := c.redis.Del(ctx, SongListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate song list cache: %w", err)
	}
	return nil
}

func (c *CachedSongRepository) invalidate(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		logger.Warn("song list cache invalidation failed", logger.ErrorField(err))
	}
}
