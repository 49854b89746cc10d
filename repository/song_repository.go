package repository

import (
	"context"
	"errors"
	"fmt"

	"OfflinePlayer/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=../internal/mocks/song_repository.go -package=mocks OfflinePlayer/repository SongRepository

var (
	ErrSongNotFound = errors.New("SongID not found")
	ErrSongExists   = errors.New("SongID already exists or constraint violation")
)

// mysqlDuplicateEntry 是 MySQL 的唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// SongQuery 搜索条件，零值字段不参与过滤
type SongQuery struct {
	SongID int64
	Title  string
}

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) error
	GetSongs(ctx context.Context) ([]model.Song, error)
	SearchSongs(ctx context.Context, q SongQuery) ([]model.Song, error)
	UpdateSong(ctx context.Context, songID int64, update model.SongUpdate) error
	DeleteSong(ctx context.Context, songID int64) error
}

// gormSongRepository implements SongRepository on top of GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new SongRepository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

// CreateSong inserts a song with a caller-chosen SongID.
func (r *gormSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	err := r.db.WithContext(ctx).Create(song).Error
	if err == nil {
		return nil
	}
	if isConstraintViolation(err) {
		return ErrSongExists
	}
	return fmt.Errorf("failed to create song %d: %w", song.SongID, err)
}

// GetSongs returns every song ordered by SongID.
func (r *gormSongRepository) GetSongs(ctx context.Context) ([]model.Song, error) {
	songs := make([]model.Song, 0)
	if err := r.db.WithContext(ctx).Order("SongID").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	return songs, nil
}

// SearchSongs filters by exact SongID and/or a Title substring.
func (r *gormSongRepository) SearchSongs(ctx context.Context, q SongQuery) ([]model.Song, error) {
	tx := r.db.WithContext(ctx).Model(&model.Song{})
	if q.SongID != 0 {
		tx = tx.Where("SongID = ?", q.SongID)
	}
	if q.Title != "" {
		tx = tx.Where("Title LIKE ?", "%"+escapeLike(q.Title)+"%")
	}

	songs := make([]model.Song, 0)
	if err := tx.Order("SongID").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	return songs, nil
}

// UpdateSong overwrites the four mutable columns of a song.
func (r *gormSongRepository) UpdateSong(ctx context.Context, songID int64, update model.SongUpdate) error {
	res := r.db.WithContext(ctx).Model(&model.Song{}).Where("SongID = ?", songID).Updates(map[string]interface{}{
		"Title":    update.Title,
		"Artist":   update.Artist,
		"Album":    update.Album,
		"FilePath": update.FilePath,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update song %d: %w", songID, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL 在值未变化时也返回 0 行，这里再确认一次记录是否存在
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Song{}).Where("SongID = ?", songID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check song %d: %w", songID, err)
		}
		if count == 0 {
			return ErrSongNotFound
		}
	}
	return nil
}

// DeleteSong removes a song by id.
func (r *gormSongRepository) DeleteSong(ctx context.Context, songID int64) error {
	res := r.db.WithContext(ctx).Where("SongID = ?", songID).Delete(&model.Song{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete song %d: %w", songID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSongNotFound
	}
	return nil
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
