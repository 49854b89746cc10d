package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"OfflinePlayer/internal/mocks"
	"OfflinePlayer/model"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type shownMessage struct {
	Text string
	Tone Tone
}

type fakeView struct {
	mu         sync.Mutex
	renders    [][]model.Song
	nowPlaying string
	seekMax    int
	seekPos    int
	current    string
	total      string
	repeat     bool
	messages   []shownMessage
	cleared    int
	formResets int
}

func (v *fakeView) RenderSongs(songs []model.Song) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, songs)
}

func (v *fakeView) SetNowPlaying(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nowPlaying = text
}

func (v *fakeView) SetSeekRange(max int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seekMax = max
}

func (v *fakeView) SetSeekPosition(pos int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seekPos = pos
}

func (v *fakeView) SetCurrentTime(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = text
}

func (v *fakeView) SetTotalTime(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.total = text
}

func (v *fakeView) SetRepeat(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.repeat = on
}

func (v *fakeView) ShowMessage(text string, tone Tone) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, shownMessage{text, tone})
}

func (v *fakeView) ClearMessage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleared++
}

func (v *fakeView) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formResets++
}

func (v *fakeView) lastMessage() shownMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.messages) == 0 {
		return shownMessage{}
	}
	return v.messages[len(v.messages)-1]
}

func (v *fakeView) hasMessage(text string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, m := range v.messages {
		if m.Text == text {
			return true
		}
	}
	return false
}

func (v *fakeView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.renders)
}

func (v *fakeView) getNowPlaying() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nowPlaying
}

type fakeHandle struct {
	mu       sync.Mutex
	src      string
	onEvent  func(AudioEvent)
	plays    int
	pauses   int
	released bool
	volume   float64
	seekedTo float64
}

func (h *fakeHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.plays++
}

func (h *fakeHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pauses++
}

func (h *fakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = v
}

func (h *fakeHandle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seekedTo = seconds
}

func (h *fakeHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
}

func (h *fakeHandle) emit(ev AudioEvent) {
	h.onEvent(ev)
}

type handleState struct {
	src      string
	plays    int
	pauses   int
	released bool
	volume   float64
	seekedTo float64
}

func (h *fakeHandle) snapshot() handleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return handleState{src: h.src, plays: h.plays, pauses: h.pauses, released: h.released, volume: h.volume, seekedTo: h.seekedTo}
}

type fakeAudio struct {
	mu      sync.Mutex
	handles []*fakeHandle
	openErr error
}

func (a *fakeAudio) Open(src string, onEvent func(AudioEvent)) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.openErr != nil {
		return nil, a.openErr
	}
	h := &fakeHandle{src: src, onEvent: onEvent}
	a.handles = append(a.handles, h)
	return h, nil
}

func (a *fakeAudio) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.handles)
}

func (a *fakeAudio) handle(i int) *fakeHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handles[i]
}

type harness struct {
	c     *Controller
	lib   *mocks.MockLibrary
	view  *fakeView
	audio *fakeAudio
	ctx   context.Context
}

func newHarness(t *testing.T, confirm bool, opts ...Option) *harness {
	t.Helper()
	return newHarnessWithConfirmer(t, ConfirmFunc(func(string) bool { return confirm }), opts...)
}

func newHarnessWithConfirmer(t *testing.T, confirmer Confirmer, opts ...Option) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	lib := mocks.NewMockLibrary(ctrl)
	lib.EXPECT().MediaURL(gomock.Any()).DoAndReturn(func(p string) string {
		return "http://api/songs/" + p
	}).AnyTimes()

	h := &harness{
		lib:   lib,
		view:  &fakeView{},
		audio: &fakeAudio{},
	}
	opts = append([]Option{WithMessageTTL(time.Hour)}, opts...)
	h.c = New(lib, h.audio, h.view, confirmer, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h.ctx = ctx
	go h.c.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.c.Done()
		ctrl.Finish()
	})
	return h
}

func (h *harness) state(t *testing.T) Snapshot {
	t.Helper()
	s, err := h.c.State(h.ctx)
	require.NoError(t, err)
	return s
}

// load primes the cached sequence through a real LoadSongs round trip.
func (h *harness) load(t *testing.T, songs []model.Song) {
	t.Helper()
	h.lib.EXPECT().GetSongs(gomock.Any()).Return(songs, nil).Times(1)
	before := h.view.renderCount()
	h.c.LoadSongs()
	require.Eventually(t, func() bool { return h.view.renderCount() > before }, time.Second, 5*time.Millisecond)
}

func songsN(n int) []model.Song {
	songs := make([]model.Song, n)
	for i := range songs {
		id := int64(i + 1)
		songs[i] = model.Song{
			SongID:   id,
			Title:    "Title" + string(rune('A'+i)),
			Artist:   "Artist" + string(rune('A'+i)),
			Album:    "Album",
			FilePath: "track" + string(rune('a'+i)) + ".mp3",
		}
	}
	return songs
}
