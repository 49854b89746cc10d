package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Song 曲库中的一首歌。JSON 字段名与前端/旧版接口保持一致。
type Song struct {
	SongID   int64  `json:"SongID" gorm:"column:SongID;primaryKey;autoIncrement:false"`
	Title    string `json:"Title" gorm:"column:Title;size:255;not null;index"`
	Artist   string `json:"Artist" gorm:"column:Artist;size:255"`
	Album    string `json:"Album" gorm:"column:Album;size:255"`
	FilePath string `json:"FilePath" gorm:"column:FilePath;size:767;not null"`
}

// TableName keeps the legacy table name.
func (Song) TableName() string {
	return "Songs"
}

var (
	ErrMissingFields = errors.New("Missing fields")
	ErrInvalidSongID = errors.New("Invalid SongID")
)

var requiredSongFields = []string{"SongID", "Title", "Artist", "Album", "FilePath"}

// DecodeSong 解析并校验新增歌曲的请求体。
// 五个字段都必须出现，SongID 必须是大于 0 的 JSON 整数。
func DecodeSong(data []byte) (*Song, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	for _, field := range requiredSongFields {
		if _, ok := raw[field]; !ok {
			return nil, ErrMissingFields
		}
	}

	rawID := bytes.TrimSpace(raw["SongID"])
	if len(rawID) == 0 || rawID[0] == '"' {
		return nil, ErrInvalidSongID
	}
	var id json.Number
	if err := json.Unmarshal(rawID, &id); err != nil {
		return nil, ErrInvalidSongID
	}
	songID, err := id.Int64()
	if err != nil {
		return nil, ErrInvalidSongID
	}

	song := &Song{SongID: songID}
	for field, dst := range map[string]*string{
		"Title":    &song.Title,
		"Artist":   &song.Artist,
		"Album":    &song.Album,
		"FilePath": &song.FilePath,
	} {
		if err := json.Unmarshal(raw[field], dst); err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}
	return song, nil
}

// Validate checks the invariants of a stored song.
func (s *Song) Validate() error {
	if s.SongID <= 0 {
		return ErrInvalidSongID
	}
	return nil
}

// SongUpdate PUT /update_song 的请求体，SongID 取自路径。
type SongUpdate struct {
	Title    string `json:"Title"`
	Artist   string `json:"Artist"`
	Album    string `json:"Album"`
	FilePath string `json:"FilePath"`
}
