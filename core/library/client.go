package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"OfflinePlayer/model"
)

// Client 曲库 REST API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError 服务端返回的非 2xx 响应。Message 取自响应体的 {"error": ...}，解析不出时为空。
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ServerMessage 返回服务端提供的错误文本
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsAPIError reports whether err came from a non-2xx response rather than the transport.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// NewClient 创建新的API客户端
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// MediaURL 把歌曲的 FilePath 解析成可播放的地址
func (c *Client) MediaURL(filePath string) string {
	segs := strings.Split(strings.TrimLeft(filePath, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return c.baseURL + "/songs/" + strings.Join(segs, "/")
}

// GetSongs GET /get_songs
func (c *Client) GetSongs(ctx context.Context) ([]model.Song, error) {
	var songs []model.Song
	if err := c.do(ctx, http.MethodGet, "/get_songs", nil, &songs); err != nil {
		return nil, err
	}
	return validateSongs(songs)
}

// SearchSongs GET /search_song?Title=term
func (c *Client) SearchSongs(ctx context.Context, title string) ([]model.Song, error) {
	q := url.Values{}
	q.Set("Title", title)
	var songs []model.Song
	if err := c.do(ctx, http.MethodGet, "/search_song?"+q.Encode(), nil, &songs); err != nil {
		return nil, err
	}
	return validateSongs(songs)
}

// SearchByID GET /search_song?SongID=id
func (c *Client) SearchByID(ctx context.Context, songID int64) ([]model.Song, error) {
	q := url.Values{}
	q.Set("SongID", strconv.FormatInt(songID, 10))
	var songs []model.Song
	if err := c.do(ctx, http.MethodGet, "/search_song?"+q.Encode(), nil, &songs); err != nil {
		return nil, err
	}
	return validateSongs(songs)
}

// AddSong POST /add_song
func (c *Client) AddSong(ctx context.Context, song model.Song) error {
	return c.do(ctx, http.MethodPost, "/add_song", song, nil)
}

// UpdateSong PUT /update_song/{id}
func (c *Client) UpdateSong(ctx context.Context, songID int64, update model.SongUpdate) error {
	return c.do(ctx, http.MethodPut, "/update_song/"+strconv.FormatInt(songID, 10), update, nil)
}

// DeleteSong DELETE /delete_song/{id}
func (c *Client) DeleteSong(ctx context.Context, songID int64) error {
	return c.do(ctx, http.MethodDelete, "/delete_song/"+strconv.FormatInt(songID, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func validateSongs(songs []model.Song) ([]model.Song, error) {
	if songs == nil {
		songs = []model.Song{}
	}
	for i := range songs {
		if err := songs[i].Validate(); err != nil {
			return nil, fmt.Errorf("song record %d: %w", i, err)
		}
	}
	return songs, nil
}
