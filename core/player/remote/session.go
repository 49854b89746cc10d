// Package remote 把 player.Controller 的视图、音频和确认框桥接到浏览器页面。
// 每个 WebSocket 连接对应一个 Session 和一个 Controller。
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"OfflinePlayer/core/player"
	"OfflinePlayer/logger"
	"OfflinePlayer/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 256

	defaultConfirmTimeout = 30 * time.Second
)

var ErrSessionClosed = errors.New("player session closed")

// Session 一个页面连接上的播放会话
type Session struct {
	ID string

	conn           *websocket.Conn
	send           chan []byte
	lib            player.Library
	ctrlOpts       []player.Option
	confirmTimeout time.Duration

	mu      sync.Mutex
	handles map[string]func(player.AudioEvent) // handle id -> 事件回调
	pending map[string]chan bool               // confirm id -> 回复

	ctrl    *player.Controller
	closing chan struct{}
	done    chan struct{}
}

// Option 配置 Session
type Option func(*Session)

// WithConfirmTimeout sets how long a delete confirmation waits for the page.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Session) { s.confirmTimeout = d }
}

func WithControllerOptions(opts ...player.Option) Option {
	return func(s *Session) { s.ctrlOpts = append(s.ctrlOpts, opts...) }
}

// NewSession 创建会话，调用 Serve 之后才开始收发消息
func NewSession(conn *websocket.Conn, lib player.Library, opts ...Option) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		lib:            lib,
		confirmTimeout: defaultConfirmTimeout,
		handles:        make(map[string]func(player.AudioEvent)),
		pending:        make(map[string]chan bool),
		closing:        make(chan struct{}),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve 运行会话直到连接断开或 ctx 结束
func (s *Session) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer close(s.done)

	log := logger.L().With(zap.String("session", s.ID))
	opts := append([]player.Option{player.WithLogger(log)}, s.ctrlOpts...)
	s.ctrl = player.New(s.lib, audioBridge{s}, viewBridge{s}, s, opts...)

	go s.ctrl.Run(ctx)
	go s.writePump(ctx)

	logger.Info("player session started", logger.String("session", s.ID))
	s.ctrl.Init()
	s.readPump()

	close(s.closing)
	cancel()
	<-s.ctrl.Done()
	logger.Info("player session closed", logger.String("session", s.ID))
}

// Done is closed once Serve has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// readPump 读取消息循环
func (s *Session) readPump() {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error",
					logger.ErrorField(err),
					logger.String("session", s.ID))
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn("invalid message format",
				logger.ErrorField(err),
				logger.String("session", s.ID))
			continue
		}

		if err := s.dispatch(&msg); err != nil {
			logger.Warn("invalid player message",
				logger.ErrorField(err),
				logger.String("session", s.ID),
				logger.String("type", string(msg.Type)))
		}
	}
}

// writePump 写入消息循环，每条消息单独一帧
func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Session) encode(typ MessageType, data interface{}) ([]byte, bool) {
	msg := WSMessage{Type: typ, Timestamp: time.Now().UnixMilli()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Error("encode player message failed", logger.ErrorField(err), logger.String("type", string(typ)))
			return nil, false
		}
		msg.Data = raw
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("encode player message failed", logger.ErrorField(err), logger.String("type", string(typ)))
		return nil, false
	}
	return payload, true
}

// sendMessage 放入发送队列，队列满时最多等待 writeWait，之后关闭连接
func (s *Session) sendMessage(typ MessageType, data interface{}) {
	payload, ok := s.encode(typ, data)
	if !ok {
		return
	}

	select {
	case s.send <- payload:
		return
	default:
	}

	timer := time.NewTimer(writeWait)
	defer timer.Stop()
	select {
	case s.send <- payload:
	case <-s.closing:
	case <-timer.C:
		// 页面长时间不读，关闭连接让 readPump 退出
		logger.Warn("player send buffer stalled, closing session",
			logger.String("session", s.ID),
			logger.String("type", string(typ)))
		s.conn.Close()
	}
}

// trySend 用于高频的进度消息，队列满时直接丢弃，下一次 timeupdate 会补上
func (s *Session) trySend(typ MessageType, data interface{}) {
	payload, ok := s.encode(typ, data)
	if !ok {
		return
	}
	select {
	case s.send <- payload:
	default:
		logger.Debug("player send buffer full, dropping message",
			logger.String("session", s.ID),
			logger.String("type", string(typ)))
	}
}

func decode(msg *WSMessage, v interface{}) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s: missing data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

// dispatch 把页面消息映射到控制器操作
func (s *Session) dispatch(msg *WSMessage) error {
	switch msg.Type {
	case MsgTypePing:
		s.trySend(MsgTypePong, nil)
	case MsgTypeLoad:
		s.ctrl.LoadSongs()
	case MsgTypeSearch:
		var d searchData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.SearchSong(d.Term)
	case MsgTypeAdd:
		var d SongFormData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.AddSong(d.form())
	case MsgTypeUpdate:
		var d updateData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.UpdateSong(d.ID, d.form())
	case MsgTypeDelete:
		var d deleteData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.DeleteSong(d.ID)
	case MsgTypePlay:
		var d playData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.PlayAudio(d.Index)
	case MsgTypePause:
		s.ctrl.PauseAudio()
	case MsgTypeNext:
		s.ctrl.PlayNext()
	case MsgTypePrev:
		s.ctrl.PlayPrevious()
	case MsgTypeRepeat:
		s.ctrl.ToggleRepeat()
	case MsgTypeVolume:
		var d valueData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.SetVolume(d.Value)
	case MsgTypeSeek:
		var d valueData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.SeekAudio(d.Value)
	case MsgTypeKey:
		var d keyData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.ctrl.HandleKey(d.Code, d.InInput)
	case MsgTypeConfirmReply:
		var d ConfirmReplyData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.resolveConfirm(d.ID, d.OK)
	case MsgTypeAudioEvent:
		var d AudioEventData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return s.deliverAudioEvent(d)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (d SongFormData) form() player.SongForm {
	return player.SongForm{
		SongID:   d.SongID,
		Title:    d.Title,
		Artist:   d.Artist,
		Album:    d.Album,
		FilePath: d.FilePath,
	}
}

var audioEventKinds = []player.EventKind{
	player.EventMetadata,
	player.EventProgress,
	player.EventEnded,
	player.EventError,
	player.EventPlayRejected,
}

// ParseAudioEvent 把页面上报的事件名转换为 player.AudioEvent
func ParseAudioEvent(d AudioEventData) (player.AudioEvent, error) {
	ev := player.AudioEvent{Duration: d.Duration, Position: d.Position}
	for _, k := range audioEventKinds {
		if k.String() == d.Event {
			ev.Kind = k
			break
		}
	}
	if ev.Kind == 0 {
		return ev, fmt.Errorf("unknown audio event %q", d.Event)
	}
	if d.Error != "" {
		ev.Err = errors.New(d.Error)
	}
	return ev, nil
}

func (s *Session) deliverAudioEvent(d AudioEventData) error {
	ev, err := ParseAudioEvent(d)
	if err != nil {
		return err
	}

	s.mu.Lock()
	onEvent, ok := s.handles[d.Handle]
	s.mu.Unlock()
	if !ok {
		// 已释放的句柄，页面可能还在上报
		logger.Debug("audio event for unknown handle",
			logger.String("session", s.ID),
			logger.String("handle", d.Handle),
			logger.String("event", d.Event))
		return nil
	}
	onEvent(ev)
	return nil
}

// Confirm 向页面弹出确认框并等待回复。超时或断开视为取消。
func (s *Session) Confirm(prompt string) bool {
	id := uuid.NewString()
	reply := make(chan bool, 1)

	s.mu.Lock()
	s.pending[id] = reply
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	s.sendMessage(MsgTypeConfirm, ConfirmData{ID: id, Prompt: prompt})

	timer := time.NewTimer(s.confirmTimeout)
	defer timer.Stop()

	select {
	case ok := <-reply:
		return ok
	case <-timer.C:
		logger.Warn("confirm timed out", logger.String("session", s.ID), logger.Duration("timeout", s.confirmTimeout))
		return false
	case <-s.closing:
		return false
	}
}

func (s *Session) resolveConfirm(id string, ok bool) {
	s.mu.Lock()
	reply, found := s.pending[id]
	s.mu.Unlock()
	if !found {
		return
	}
	select {
	case reply <- ok:
	default:
	}
}

// viewBridge 把视图更新转发给页面
type viewBridge struct {
	s *Session
}

func (v viewBridge) RenderSongs(songs []model.Song) {
	v.s.sendMessage(MsgTypeRender, renderData{Songs: songs})
}

func (v viewBridge) SetNowPlaying(text string) {
	v.s.sendMessage(MsgTypeNowPlaying, textData{Text: text})
}

func (v viewBridge) SetSeekRange(max int) {
	v.s.sendMessage(MsgTypeSeekMax, valueData{Value: float64(max)})
}

func (v viewBridge) SetSeekPosition(pos int) {
	v.s.trySend(MsgTypeSeekPos, valueData{Value: float64(pos)})
}

func (v viewBridge) SetCurrentTime(text string) {
	v.s.trySend(MsgTypeTime, timeData{Current: text})
}

func (v viewBridge) SetTotalTime(text string) {
	v.s.sendMessage(MsgTypeTime, timeData{Total: text})
}

func (v viewBridge) SetRepeat(on bool) {
	v.s.sendMessage(MsgTypeRepeatState, repeatData{On: on})
}

func (v viewBridge) ShowMessage(text string, tone player.Tone) {
	v.s.sendMessage(MsgTypeMessage, messageData{Text: text, Tone: string(tone)})
}

func (v viewBridge) ClearMessage() {
	v.s.sendMessage(MsgTypeMessageClear, nil)
}

func (v viewBridge) ResetForm() {
	v.s.sendMessage(MsgTypeFormReset, nil)
}

// audioBridge 在页面上创建 Audio 元素，用 uuid 标识句柄
type audioBridge struct {
	s *Session
}

func (a audioBridge) Open(src string, onEvent func(player.AudioEvent)) (player.Handle, error) {
	select {
	case <-a.s.closing:
		return nil, ErrSessionClosed
	default:
	}

	id := uuid.NewString()
	a.s.mu.Lock()
	a.s.handles[id] = onEvent
	a.s.mu.Unlock()

	a.s.sendMessage(MsgTypeAudioOpen, AudioOpenData{Handle: id, Src: src, Volume: 1})
	return &remoteHandle{s: a.s, id: id}, nil
}

type remoteHandle struct {
	s  *Session
	id string
}

func (h *remoteHandle) Play() {
	h.s.sendMessage(MsgTypeAudioPlay, handleData{Handle: h.id})
}

func (h *remoteHandle) Pause() {
	h.s.sendMessage(MsgTypeAudioPause, handleData{Handle: h.id})
}

func (h *remoteHandle) SetVolume(v float64) {
	h.s.sendMessage(MsgTypeAudioVolume, handleValueData{Handle: h.id, Value: v})
}

func (h *remoteHandle) Seek(seconds float64) {
	h.s.sendMessage(MsgTypeAudioSeek, handleValueData{Handle: h.id, Value: seconds})
}

func (h *remoteHandle) Release() {
	h.s.mu.Lock()
	delete(h.s.handles, h.id)
	h.s.mu.Unlock()
	h.s.sendMessage(MsgTypeAudioRelease, handleData{Handle: h.id})
}
