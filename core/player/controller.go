package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"OfflinePlayer/core/library"
	"OfflinePlayer/model"

	"go.uber.org/zap"
)

var ErrStopped = errors.New("player controller stopped")

const (
	defaultMessageTTL     = 3 * time.Second
	defaultRequestTimeout = 10 * time.Second
	eventQueueSize        = 64
)

// session 当前加载的音频。handle 为 nil 时处于 Idle。
type session struct {
	handle  Handle
	gen     uint64
	index   int
	songID  int64
	playing bool
	repeat  bool
	volume  float64
}

// Snapshot 控制器状态的只读拷贝
type Snapshot struct {
	Songs   []model.Song
	Index   int
	SongID  int64
	Loaded  bool
	Playing bool
	Repeat  bool
	Volume  float64
}

// Controller 播放控制器，生命周期与一个页面相同
type Controller struct {
	lib     Library
	audio   Audio
	view    View
	confirm Confirmer
	log     *zap.Logger

	messageTTL     time.Duration
	requestTimeout time.Duration

	events chan func()
	done   chan struct{}
	runCtx context.Context

	// 以下字段只在事件循环中访问
	songs      []model.Song
	session    session
	listGen    uint64
	listCancel context.CancelFunc
	msgGen     uint64
}

// Option 配置 Controller
type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithMessageTTL sets how long a status message stays before it is cleared.
func WithMessageTTL(d time.Duration) Option {
	return func(c *Controller) { c.messageTTL = d }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.requestTimeout = d }
}

// New 创建控制器。调用 Run 之前投递的操作会排队等待。
func New(lib Library, audio Audio, view View, confirm Confirmer, opts ...Option) *Controller {
	c := &Controller{
		lib:            lib,
		audio:          audio,
		view:           view,
		confirm:        confirm,
		log:            zap.NewNop(),
		messageTTL:     defaultMessageTTL,
		requestTimeout: defaultRequestTimeout,
		events:         make(chan func(), eventQueueSize),
		done:           make(chan struct{}),
		runCtx:         context.Background(),
		songs:          []model.Song{},
		session:        session{index: -1, volume: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run 执行事件循环直到 ctx 结束，退出时释放音频句柄
func (c *Controller) Run(ctx context.Context) {
	c.runCtx = ctx
	defer close(c.done)
	defer func() {
		if c.listCancel != nil {
			c.listCancel()
		}
		c.releaseHandle()
	}()

	for {
		select {
		case fn := <-c.events:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) post(fn func()) bool {
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

// async 在新 goroutine 中执行网络请求，ctx 随 Run 的 ctx 取消
func (c *Controller) async(parent context.Context, fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(parent, c.requestTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// ========== 公开操作，全部投递到事件循环 ==========

// Init 页面加载完成：拉取列表并提示就绪
func (c *Controller) Init() {
	c.post(func() {
		c.loadSongs()
		c.showMessage(msgReady, ToneSuccess)
	})
}

func (c *Controller) LoadSongs()              { c.post(c.loadSongs) }
func (c *Controller) SearchSong(term string)  { c.post(func() { c.searchSong(term) }) }
func (c *Controller) AddSong(form SongForm)   { c.post(func() { c.addSong(form) }) }
func (c *Controller) DeleteSong(songID int64) { c.post(func() { c.deleteSong(songID) }) }
func (c *Controller) PlayAudio(index int)     { c.post(func() { c.playAudio(index) }) }
func (c *Controller) PauseAudio()             { c.post(c.pauseAudio) }
func (c *Controller) PlayNext()               { c.post(c.playNext) }
func (c *Controller) PlayPrevious()           { c.post(c.playPrevious) }
func (c *Controller) ToggleRepeat()           { c.post(c.toggleRepeat) }
func (c *Controller) SetVolume(v float64)     { c.post(func() { c.setVolume(v) }) }
func (c *Controller) SeekAudio(t float64)     { c.post(func() { c.seekAudio(t) }) }

func (c *Controller) UpdateSong(songID int64, form SongForm) {
	c.post(func() { c.updateSong(songID, form) })
}

// HandleKey 键盘控制。inTextInput 为 true 时忽略空格。
func (c *Controller) HandleKey(code string, inTextInput bool) {
	c.post(func() { c.handleKey(code, inTextInput) })
}

// State 返回当前状态的拷贝，会排在已投递的操作之后执行
func (c *Controller) State(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	if !c.post(func() { ch <- c.snapshot() }) {
		return Snapshot{}, ErrStopped
	}
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-c.done:
		return Snapshot{}, ErrStopped
	}
}

func (c *Controller) snapshot() Snapshot {
	songs := make([]model.Song, len(c.songs))
	copy(songs, c.songs)
	return Snapshot{
		Songs:   songs,
		Index:   c.session.index,
		SongID:  c.session.songID,
		Loaded:  c.session.handle != nil,
		Playing: c.session.playing,
		Repeat:  c.session.repeat,
		Volume:  c.session.volume,
	}
}

// ========== 曲库同步 ==========

func (c *Controller) loadSongs() {
	c.fetchList("load", msgLoadFailed, func(ctx context.Context) ([]model.Song, error) {
		return c.lib.GetSongs(ctx)
	})
}

func (c *Controller) searchSong(term string) {
	c.fetchList("search", msgSearchFailed, func(ctx context.Context) ([]model.Song, error) {
		return c.lib.SearchSongs(ctx, term)
	})
}

// fetchList 发起列表请求。新的请求会取消上一个，并且只接受最新一代的响应。
func (c *Controller) fetchList(op, failMsg string, fetch func(ctx context.Context) ([]model.Song, error)) {
	if c.listCancel != nil {
		c.listCancel()
	}
	c.listGen++
	gen := c.listGen
	// cancel 由下一次请求、applyList 或 Run 退出时调用
	ctx, cancel := context.WithTimeout(c.runCtx, c.requestTimeout)
	c.listCancel = cancel

	go func() {
		songs, err := fetch(ctx)
		c.post(func() { c.applyList(op, gen, songs, err, failMsg) })
	}()
}

func (c *Controller) applyList(op string, gen uint64, songs []model.Song, err error, failMsg string) {
	if gen != c.listGen {
		c.log.Debug("discarding stale song list", zap.String("op", op), zap.Uint64("gen", gen), zap.Uint64("latest", c.listGen))
		return
	}
	c.listCancel()
	c.listCancel = nil
	if err != nil {
		c.log.Warn("song list request failed", zap.String("op", op), zap.Error(err))
		c.showMessage(failMsg, ToneError)
		return
	}
	if songs == nil {
		songs = []model.Song{}
	}
	c.songs = songs
	c.view.RenderSongs(songs)
	c.revalidateIndex()
}

// revalidateIndex 列表替换后，按 SongID 重新定位当前歌曲
func (c *Controller) revalidateIndex() {
	if c.session.songID == 0 {
		c.session.index = -1
		return
	}
	c.session.index = -1
	for i, s := range c.songs {
		if s.SongID == c.session.songID {
			c.session.index = i
			return
		}
	}
}

// parseSongID 只做数值转换，解析失败时为 0，由服务端拒绝
func parseSongID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *Controller) addSong(form SongForm) {
	song := model.Song{
		SongID:   parseSongID(form.SongID),
		Title:    form.Title,
		Artist:   form.Artist,
		Album:    form.Album,
		FilePath: form.FilePath,
	}
	c.async(c.runCtx, func(ctx context.Context) {
		err := c.lib.AddSong(ctx, song)
		c.post(func() {
			if err != nil {
				c.reportWriteError("add", err, msgAddFailed)
				return
			}
			c.log.Info("song added", zap.Int64("songId", song.SongID))
			c.showMessage(msgAdded, ToneSuccess)
			c.view.ResetForm()
			c.loadSongs()
		})
	})
}

func (c *Controller) updateSong(songID int64, form SongForm) {
	update := model.SongUpdate{Title: form.Title, Artist: form.Artist, Album: form.Album, FilePath: form.FilePath}
	c.async(c.runCtx, func(ctx context.Context) {
		err := c.lib.UpdateSong(ctx, songID, update)
		c.post(func() {
			if err != nil {
				c.reportWriteError("update", err, msgUpdateFailed)
				return
			}
			c.showMessage(msgUpdated, ToneSuccess)
			c.loadSongs()
		})
	})
}

// deleteSong 确认框在单独的 goroutine 里等待，事件循环照常处理音频事件
func (c *Controller) deleteSong(songID int64) {
	go func() {
		if !c.confirm.Confirm(msgConfirmDelete) {
			return
		}
		c.post(func() { c.sendDelete(songID) })
	}()
}

func (c *Controller) sendDelete(songID int64) {
	c.async(c.runCtx, func(ctx context.Context) {
		err := c.lib.DeleteSong(ctx, songID)
		c.post(func() {
			if err != nil {
				c.reportWriteError("delete", err, msgDeleteFailed)
				return
			}
			c.log.Info("song deleted", zap.Int64("songId", songID))
			c.showMessage(msgDeleted, ToneSuccess)
			if c.session.handle != nil && c.session.songID == songID {
				c.releaseHandle()
				c.session.index = -1
				c.session.songID = 0
				c.view.SetNowPlaying(nowPlayingNone)
			}
			c.loadSongs()
		})
	})
}

// reportWriteError 服务端错误优先展示服务端文本，网络错误展示连接错误
func (c *Controller) reportWriteError(op string, err error, fallback string) {
	c.log.Warn("library write failed", zap.String("op", op), zap.Error(err))
	if !library.IsAPIError(err) {
		c.showMessage("❌ Connection error: "+err.Error(), ToneError)
		return
	}
	text := fallback
	if msg, ok := library.ServerMessage(err); ok {
		text = msg
	}
	c.showMessage("❌ "+text, ToneError)
}

// ========== 播放状态机 ==========

func (c *Controller) playAudio(index int) {
	if index < 0 || index >= len(c.songs) {
		return
	}
	song := c.songs[index]

	c.releaseHandle()
	c.session.gen++
	gen := c.session.gen
	c.session.index = index
	c.session.songID = song.SongID

	h, err := c.audio.Open(c.lib.MediaURL(song.FilePath), func(ev AudioEvent) {
		c.post(func() { c.onAudioEvent(gen, ev) })
	})
	if err != nil {
		c.log.Warn("open audio failed", zap.Int64("songId", song.SongID), zap.Error(err))
		c.showMessage("❌ Failed to play: "+err.Error(), ToneError)
		return
	}

	c.session.handle = h
	h.SetVolume(c.session.volume)
	c.view.SetNowPlaying(fmt.Sprintf(nowPlayingPattern, song.Title, song.Artist))
	h.Play()
	c.session.playing = true
}

func (c *Controller) onAudioEvent(gen uint64, ev AudioEvent) {
	if c.session.handle == nil || gen != c.session.gen {
		c.log.Debug("dropping event from released handle", zap.Stringer("event", ev.Kind), zap.Uint64("gen", gen))
		return
	}

	switch ev.Kind {
	case EventMetadata:
		if math.IsNaN(ev.Duration) || math.IsInf(ev.Duration, 0) {
			return
		}
		c.view.SetSeekRange(int(math.Floor(ev.Duration)))
		c.view.SetTotalTime(FormatClock(ev.Duration))
	case EventProgress:
		c.view.SetSeekPosition(int(math.Floor(ev.Position)))
		c.view.SetCurrentTime(FormatClock(ev.Position))
	case EventEnded:
		c.session.playing = false
		if c.session.repeat {
			c.playAudio(c.session.index)
		} else {
			c.playNext()
		}
	case EventError:
		c.log.Warn("audio error", zap.Int64("songId", c.session.songID), zap.Error(ev.Err))
		c.showMessage(msgAudioError, ToneError)
	case EventPlayRejected:
		c.session.playing = false
		reason := "playback rejected"
		if ev.Err != nil {
			reason = ev.Err.Error()
		}
		c.showMessage("❌ Failed to play: "+reason, ToneError)
	}
}

// releaseHandle 暂停并丢弃当前句柄，之后它的事件都会被忽略
func (c *Controller) releaseHandle() {
	if c.session.handle == nil {
		return
	}
	c.session.handle.Pause()
	c.session.handle.Release()
	c.session.handle = nil
	c.session.playing = false
	c.session.gen++
}

func (c *Controller) pauseAudio() {
	if c.session.handle == nil {
		return
	}
	c.session.handle.Pause()
	c.session.playing = false
	c.showMessage(msgPaused, ToneWarning)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (c *Controller) playNext() {
	n := len(c.songs)
	if n == 0 {
		return
	}
	c.playAudio(wrap(c.session.index+1, n))
}

func (c *Controller) playPrevious() {
	n := len(c.songs)
	if n == 0 {
		return
	}
	c.playAudio(wrap(c.session.index-1, n))
}

func (c *Controller) toggleRepeat() {
	c.session.repeat = !c.session.repeat
	c.view.SetRepeat(c.session.repeat)
	if c.session.repeat {
		c.showMessage(msgRepeatOn, ToneSuccess)
	} else {
		c.showMessage(msgRepeatOff, ToneWarning)
	}
}

func (c *Controller) setVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = math.Max(0, math.Min(1, v))
	c.session.volume = v
	if c.session.handle != nil {
		c.session.handle.SetVolume(v)
	}
}

func (c *Controller) seekAudio(t float64) {
	if c.session.handle == nil || math.IsNaN(t) {
		return
	}
	c.session.handle.Seek(math.Max(0, t))
}

func (c *Controller) handleKey(code string, inTextInput bool) {
	switch code {
	case KeySpace:
		if inTextInput {
			return
		}
		switch {
		case c.session.handle != nil && c.session.playing:
			c.pauseAudio()
		case c.session.handle != nil:
			c.session.handle.Play()
			c.session.playing = true
		case c.session.index >= 0:
			c.playAudio(c.session.index)
		}
	case KeyArrowRight:
		c.playNext()
	case KeyArrowLeft:
		c.playPrevious()
	}
}

// ========== 状态消息 ==========

// showMessage 显示消息并在 messageTTL 后清除；只有最新的一条会被清除
func (c *Controller) showMessage(text string, tone Tone) {
	c.msgGen++
	gen := c.msgGen
	c.view.ShowMessage(text, tone)
	time.AfterFunc(c.messageTTL, func() {
		c.post(func() {
			if gen == c.msgGen {
				c.view.ClearMessage()
			}
		})
	})
}
