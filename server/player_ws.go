package server

import (
	"context"
	"net/http"

	"OfflinePlayer/core/player"
	"OfflinePlayer/core/player/remote"
	"OfflinePlayer/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// PlayerHandler GET /ws/player，每个连接一个播放会话
type PlayerHandler struct {
	ctx  context.Context
	lib  player.Library
	opts []remote.Option
}

// NewPlayerHandler 创建播放会话处理器。ctx 结束时所有会话关闭。
func NewPlayerHandler(ctx context.Context, lib player.Library, opts ...remote.Option) *PlayerHandler {
	return &PlayerHandler{ctx: ctx, lib: lib, opts: opts}
}

func (h *PlayerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	session := remote.NewSession(conn, h.lib, h.opts...)
	logger.Info("player connected",
		logger.String("session", session.ID),
		logger.String("remote", r.RemoteAddr))
	session.Serve(h.ctx)
}
