// Package player 实现曲库页面的播放控制器：拉取歌曲列表、渲染表格、
// 管理唯一的音频会话，并把按键和控件事件映射到播放动作。
//
// Controller 的所有状态只在 Run 的事件循环里修改；网络请求在独立 goroutine 中执行，
// 结果投递回事件循环。视图、音频元素和确认框都通过接口注入。
package player

import (
	"context"
	"fmt"
	"math"

	"OfflinePlayer/model"
)

//go:generate mockgen -destination=../../internal/mocks/player_library.go -package=mocks OfflinePlayer/core/player Library

// Library 远端曲库 API
type Library interface {
	GetSongs(ctx context.Context) ([]model.Song, error)
	SearchSongs(ctx context.Context, title string) ([]model.Song, error)
	AddSong(ctx context.Context, song model.Song) error
	UpdateSong(ctx context.Context, songID int64, update model.SongUpdate) error
	DeleteSong(ctx context.Context, songID int64) error
	MediaURL(filePath string) string
}

// EventKind 音频句柄上报的事件类型
type EventKind int

const (
	EventMetadata     EventKind = iota + 1 // duration known
	EventProgress                          // position changed while playing
	EventEnded                             // reached the end of the track
	EventError                             // media missing or undecodable
	EventPlayRejected                      // play() was refused
)

func (k EventKind) String() string {
	switch k {
	case EventMetadata:
		return "loadedmetadata"
	case EventProgress:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventPlayRejected:
		return "play_rejected"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// AudioEvent 音频句柄事件。Duration 和 Position 以秒为单位。
type AudioEvent struct {
	Kind     EventKind
	Duration float64
	Position float64
	Err      error
}

// Audio 打开音频句柄。onEvent 可能在任意 goroutine 上被调用。
type Audio interface {
	Open(src string, onEvent func(AudioEvent)) (Handle, error)
}

// Handle 绑定到一个媒体资源的音频播放对象。Play 是异步的，被拒绝时通过 EventPlayRejected 上报。
type Handle interface {
	Play()
	Pause()
	SetVolume(v float64)
	Seek(seconds float64)
	Release()
}

// Tone 状态消息的颜色
type Tone string

const (
	ToneSuccess Tone = "green"
	ToneError   Tone = "red"
	ToneWarning Tone = "#ffa500"
)

// View 页面上的展示元素
type View interface {
	RenderSongs(songs []model.Song)
	SetNowPlaying(text string)
	SetSeekRange(max int)
	SetSeekPosition(pos int)
	SetCurrentTime(text string)
	SetTotalTime(text string)
	SetRepeat(on bool)
	ShowMessage(text string, tone Tone)
	ClearMessage()
	ResetForm()
}

// Confirmer 同步地向用户确认一个操作。Confirm 可能阻塞很久，控制器不在事件循环中调用它。
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// SongForm 添加/修改歌曲表单的原始输入
type SongForm struct {
	SongID   string
	Title    string
	Artist   string
	Album    string
	FilePath string
}

// Key codes understood by HandleKey.
const (
	KeySpace      = "Space"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

const (
	msgReady          = "🎵 Music Player Ready!"
	msgLoadFailed     = "❌ Failed to load songs"
	msgSearchFailed   = "❌ Search failed"
	msgAdded          = "✅ Song added successfully!"
	msgAddFailed      = "Failed to add song"
	msgUpdated        = "✅ Song updated successfully!"
	msgUpdateFailed   = "Failed to update song"
	msgDeleted        = "✅ Song deleted successfully!"
	msgDeleteFailed   = "Failed to delete song"
	msgConfirmDelete  = "Are you sure you want to delete this song?"
	msgPaused         = "⏸ Paused"
	msgRepeatOn       = "🔁 Repeat ON"
	msgRepeatOff      = "🔁 Repeat OFF"
	msgAudioError     = "❌ Audio file not found or cannot be played"
	nowPlayingNone    = "Currently Playing: None"
	nowPlayingPattern = "🎵 Now Playing: %s - %s"
)

// FormatClock 把秒数格式化为 mm:ss
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
