package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"OfflinePlayer/core/player"
	"OfflinePlayer/internal/mocks"
	"OfflinePlayer/model"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	t    *testing.T
	conn *websocket.Conn
}

// startSession 启动一个只服务单个连接的测试服务器并连接上去
func startSession(t *testing.T, lib player.Library, opts ...Option) *page {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	sessions := make(chan *Session, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s := NewSession(conn, lib, opts...)
		sessions <- s
		s.Serve(context.Background())
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	s := <-sessions
	t.Cleanup(func() {
		conn.Close()
		select {
		case <-s.Done():
		case <-time.After(2 * time.Second):
			t.Error("session did not stop after disconnect")
		}
		srv.Close()
	})
	return &page{t: t, conn: conn}
}

func (p *page) send(typ MessageType, data interface{}) {
	p.t.Helper()
	msg := WSMessage{Type: typ}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(p.t, err)
		msg.Data = raw
	}
	require.NoError(p.t, p.conn.WriteJSON(msg))
}

// waitFor 读取消息直到出现指定类型
func (p *page) waitFor(typ MessageType) WSMessage {
	p.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(p.t, p.conn.SetReadDeadline(deadline))
		var msg WSMessage
		require.NoError(p.t, p.conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ {
			return msg
		}
	}
}

func decodeData(t *testing.T, msg WSMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Data, v))
}

func testSongs() []model.Song {
	return []model.Song{
		{SongID: 1, Title: "Blue", Artist: "Ann", Album: "X", FilePath: "blue.mp3"},
		{SongID: 2, Title: "Red", Artist: "Bob", Album: "Y", FilePath: "red.mp3"},
	}
}

func newLibrary(t *testing.T) *mocks.MockLibrary {
	ctrl := gomock.NewController(t)
	lib := mocks.NewMockLibrary(ctrl)
	lib.EXPECT().MediaURL(gomock.Any()).DoAndReturn(func(p string) string {
		return "http://api/songs/" + p
	}).AnyTimes()
	return lib
}

func TestSession_InitRendersSongs(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(testSongs(), nil)

	p := startSession(t, lib)

	var ready messageData
	decodeData(t, p.waitFor(MsgTypeMessage), &ready)
	assert.Equal(t, "🎵 Music Player Ready!", ready.Text)
	assert.Equal(t, "green", ready.Tone)

	var render renderData
	decodeData(t, p.waitFor(MsgTypeRender), &render)
	assert.Equal(t, testSongs(), render.Songs)
}

func TestSession_PingPong(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(nil, nil).AnyTimes()

	p := startSession(t, lib)
	p.send(MsgTypePing, nil)

	msg := p.waitFor(MsgTypePong)
	assert.NotZero(t, msg.Timestamp)
}

func TestSession_PlayOpensAudioOnPage(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(testSongs(), nil)

	p := startSession(t, lib)
	p.waitFor(MsgTypeRender)

	p.send(MsgTypePlay, playData{Index: 1})

	var open AudioOpenData
	decodeData(t, p.waitFor(MsgTypeAudioOpen), &open)
	assert.Equal(t, "http://api/songs/red.mp3", open.Src)
	assert.NotEmpty(t, open.Handle)

	var np textData
	decodeData(t, p.waitFor(MsgTypeNowPlaying), &np)
	assert.Equal(t, "🎵 Now Playing: Red - Bob", np.Text)

	var play handleData
	decodeData(t, p.waitFor(MsgTypeAudioPlay), &play)
	assert.Equal(t, open.Handle, play.Handle)

	// 页面上报元数据后服务端回写总时长
	p.send(MsgTypeAudioEvent, AudioEventData{Handle: open.Handle, Event: "loadedmetadata", Duration: 125})
	var seekMax valueData
	decodeData(t, p.waitFor(MsgTypeSeekMax), &seekMax)
	assert.Equal(t, 125.0, seekMax.Value)
	var total timeData
	decodeData(t, p.waitFor(MsgTypeTime), &total)
	assert.Equal(t, "02:05", total.Total)

	// 播放结束后自动切到下一首（回绕到第一首）
	p.send(MsgTypeAudioEvent, AudioEventData{Handle: open.Handle, Event: "ended"})
	var released handleData
	decodeData(t, p.waitFor(MsgTypeAudioRelease), &released)
	assert.Equal(t, open.Handle, released.Handle)
	var next AudioOpenData
	decodeData(t, p.waitFor(MsgTypeAudioOpen), &next)
	assert.Equal(t, "http://api/songs/blue.mp3", next.Src)
	assert.NotEqual(t, open.Handle, next.Handle)
}

func TestSession_DeleteWaitsForConfirm(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(testSongs(), nil).Times(2)
	lib.EXPECT().DeleteSong(gomock.Any(), int64(2)).Return(nil)

	p := startSession(t, lib)
	p.waitFor(MsgTypeRender)

	p.send(MsgTypeDelete, deleteData{ID: 2})

	var confirm ConfirmData
	decodeData(t, p.waitFor(MsgTypeConfirm), &confirm)
	assert.Equal(t, "Are you sure you want to delete this song?", confirm.Prompt)

	p.send(MsgTypeConfirmReply, ConfirmReplyData{ID: confirm.ID, OK: true})

	var done messageData
	decodeData(t, p.waitFor(MsgTypeMessage), &done)
	assert.Equal(t, "✅ Song deleted successfully!", done.Text)
	p.waitFor(MsgTypeRender)
}

func TestSession_ConfirmReplyReadWhileAudioKeepsReporting(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(testSongs(), nil).Times(2)
	lib.EXPECT().DeleteSong(gomock.Any(), int64(2)).Return(nil)

	p := startSession(t, lib)
	p.waitFor(MsgTypeRender)

	p.send(MsgTypePlay, playData{Index: 0})
	var open AudioOpenData
	decodeData(t, p.waitFor(MsgTypeAudioOpen), &open)

	p.send(MsgTypeDelete, deleteData{ID: 2})
	var confirm ConfirmData
	decodeData(t, p.waitFor(MsgTypeConfirm), &confirm)

	// 大约 20 秒的播放进度，超过控制器事件队列的长度
	for i := 0; i < 80; i++ {
		p.send(MsgTypeAudioEvent, AudioEventData{Handle: open.Handle, Event: "timeupdate", Position: float64(i) / 4})
	}
	p.send(MsgTypeConfirmReply, ConfirmReplyData{ID: confirm.ID, OK: true})

	for {
		var msg messageData
		decodeData(t, p.waitFor(MsgTypeMessage), &msg)
		if msg.Text == "✅ Song deleted successfully!" {
			break
		}
	}
	p.waitFor(MsgTypeRender)
}

func TestSession_ConfirmTimeoutDeclines(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(testSongs(), nil)
	// 没有 DeleteSong 期望：超时后不应发出删除请求

	p := startSession(t, lib, WithConfirmTimeout(20*time.Millisecond))
	p.waitFor(MsgTypeRender)

	p.send(MsgTypeDelete, deleteData{ID: 1})
	p.waitFor(MsgTypeConfirm)

	time.Sleep(50 * time.Millisecond)
	p.send(MsgTypeRepeat, nil)
	var state repeatData
	decodeData(t, p.waitFor(MsgTypeRepeatState), &state)
	assert.True(t, state.On)
}

func TestSession_AddSendsFormToLibrary(t *testing.T) {
	lib := newLibrary(t)
	lib.EXPECT().GetSongs(gomock.Any()).Return(nil, nil).Times(2)
	lib.EXPECT().AddSong(gomock.Any(), model.Song{SongID: 7, Title: "T", Artist: "A", Album: "B", FilePath: "t.mp3"}).Return(nil)

	p := startSession(t, lib)
	p.waitFor(MsgTypeRender)

	p.send(MsgTypeAdd, SongFormData{SongID: "7", Title: "T", Artist: "A", Album: "B", FilePath: "t.mp3"})

	p.waitFor(MsgTypeFormReset)
	p.waitFor(MsgTypeRender)
}

func TestSession_FullSendBufferDropsOnlyProgress(t *testing.T) {
	s := NewSession(nil, nil)
	for i := 0; i < sendBufferSize; i++ {
		s.send <- nil
	}

	viewBridge{s}.SetSeekPosition(12)
	viewBridge{s}.SetCurrentTime("00:12")
	assert.Len(t, s.send, sendBufferSize)

	sent := make(chan struct{})
	go func() {
		s.sendMessage(MsgTypeConfirm, ConfirmData{ID: "c1", Prompt: "sure?"})
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("confirm was dropped instead of waiting for room")
	case <-time.After(20 * time.Millisecond):
	}

	for i := 0; i < sendBufferSize; i++ {
		<-s.send
	}
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("confirm still blocked after the buffer drained")
	}

	var msg WSMessage
	require.NoError(t, json.Unmarshal(<-s.send, &msg))
	assert.Equal(t, MsgTypeConfirm, msg.Type)
	var confirm ConfirmData
	decodeData(t, msg, &confirm)
	assert.Equal(t, "c1", confirm.ID)
}

func TestParseAudioEvent(t *testing.T) {
	tests := []struct {
		event   string
		kind    player.EventKind
		wantErr bool
	}{
		{"loadedmetadata", player.EventMetadata, false},
		{"timeupdate", player.EventProgress, false},
		{"ended", player.EventEnded, false},
		{"error", player.EventError, false},
		{"play_rejected", player.EventPlayRejected, false},
		{"stalled", 0, true},
	}

	for _, test := range tests {
		ev, err := ParseAudioEvent(AudioEventData{Event: test.event, Error: "boom"})
		if test.wantErr {
			assert.Error(t, err, test.event)
			continue
		}
		require.NoError(t, err, test.event)
		assert.Equal(t, test.kind, ev.Kind)
		assert.EqualError(t, ev.Err, "boom")
	}
}
