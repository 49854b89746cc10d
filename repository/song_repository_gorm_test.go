package repository

import (
	"context"
	"regexp"
	"testing"

	"OfflinePlayer/model"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var songColumns = []string{"SongID", "Title", "Artist", "Album", "FilePath"}

// newMockRepository 在 sqlmock 上打开 GORM 的 MySQL 方言
func newMockRepository(t *testing.T) (SongRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewGormSongRepository(gdb), mock
}

func TestGormSongRepository_CreateSong(t *testing.T) {
	repo, mock := newMockRepository(t)
	song := &model.Song{SongID: 5, Title: "T", Artist: "A", Album: "B", FilePath: "f.mp3"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Songs`")).
		WithArgs(int64(5), "T", "A", "B", "f.mp3").
		WillReturnResult(sqlmock.NewResult(5, 1))
	require.NoError(t, repo.CreateSong(context.Background(), song))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Songs`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'PRIMARY'"})
	assert.ErrorIs(t, repo.CreateSong(context.Background(), song), ErrSongExists)
}

func TestGormSongRepository_GetSongsOrdersBySongID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Songs` ORDER BY SongID")).
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow(1, "Blue", "Ann", "X", "blue.mp3").
			AddRow(2, "Red", "Bob", "Y", "red.mp3"))

	songs, err := repo.GetSongs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Song{
		{SongID: 1, Title: "Blue", Artist: "Ann", Album: "X", FilePath: "blue.mp3"},
		{SongID: 2, Title: "Red", Artist: "Bob", Album: "Y", FilePath: "red.mp3"},
	}, songs)
}

func TestGormSongRepository_SearchSongs(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Songs` WHERE SongID = ? AND Title LIKE ? ORDER BY SongID")).
		WithArgs(int64(3), `%50\%%`).
		WillReturnRows(sqlmock.NewRows(songColumns).AddRow(3, "50% Off", "C", "Z", "c.mp3"))

	songs, err := repo.SearchSongs(context.Background(), SongQuery{SongID: 3, Title: "50%"})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, int64(3), songs[0].SongID)

	// 没有命中时返回空切片而不是 nil
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Songs` WHERE Title LIKE ? ORDER BY SongID")).
		WithArgs("%none%").
		WillReturnRows(sqlmock.NewRows(songColumns))

	songs, err = repo.SearchSongs(context.Background(), SongQuery{Title: "none"})
	require.NoError(t, err)
	assert.NotNil(t, songs)
	assert.Empty(t, songs)
}

func TestGormSongRepository_UpdateSong(t *testing.T) {
	update := model.SongUpdate{Title: "N", Artist: "A", Album: "B", FilePath: "n.mp3"}
	updateSQL := regexp.QuoteMeta("UPDATE `Songs` SET")
	countSQL := regexp.QuoteMeta("SELECT count(*) FROM `Songs` WHERE SongID = ?")

	t.Run("changed", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateSong(context.Background(), 4, update))
	})

	t.Run("unchanged values", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(countSQL).WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

		assert.NoError(t, repo.UpdateSong(context.Background(), 4, update))
	})

	t.Run("missing id", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(countSQL).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		assert.ErrorIs(t, repo.UpdateSong(context.Background(), 9, update), ErrSongNotFound)
	})
}

func TestGormSongRepository_DeleteSong(t *testing.T) {
	repo, mock := newMockRepository(t)
	deleteSQL := regexp.QuoteMeta("DELETE FROM `Songs` WHERE SongID = ?")

	mock.ExpectExec(deleteSQL).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteSong(context.Background(), 1))

	mock.ExpectExec(deleteSQL).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteSong(context.Background(), 9), ErrSongNotFound)
}
