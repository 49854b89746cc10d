package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"OfflinePlayer/logger"
	"OfflinePlayer/model"
	"OfflinePlayer/repository"
	"OfflinePlayer/storage"

	"github.com/gorilla/mux"
)

const maxSongBody = 1 << 20

// Handler 处理曲库和媒体文件请求
type Handler struct {
	songs repository.SongRepository
	media storage.MediaStore
}

// NewHandler 创建新的API处理器
func NewHandler(songs repository.SongRepository, media storage.MediaStore) *Handler {
	return &Handler{songs: songs, media: media}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response failed", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// parseSongID 解析路径中的 SongID
func parseSongID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetSongsHandler GET /get_songs
func (h *Handler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.GetSongs(r.Context())
	if err != nil {
		logger.Error("Get songs error", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// SearchSongHandler GET /search_song?SongID=&Title=
func (h *Handler) SearchSongHandler(w http.ResponseWriter, r *http.Request) {
	var q repository.SongQuery
	if raw := r.URL.Query().Get("SongID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrInvalidSongID.Error())
			return
		}
		q.SongID = id
	}
	q.Title = r.URL.Query().Get("Title")

	songs, err := h.songs.SearchSongs(r.Context(), q)
	if err != nil {
		logger.Error("Search song error", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// AddSongHandler POST /add_song
func (h *Handler) AddSongHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSongBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	song, err := model.DecodeSong(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.songs.CreateSong(r.Context(), song); err != nil {
		if errors.Is(err, repository.ErrSongExists) {
			writeError(w, http.StatusBadRequest, repository.ErrSongExists.Error())
			return
		}
		logger.Error("Add song error", logger.ErrorField(err), logger.Int64("songId", song.SongID))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("Song added", logger.Int64("songId", song.SongID), logger.String("title", song.Title))
	writeMessage(w, http.StatusCreated, "Song added successfully")
}

// UpdateSongHandler PUT /update_song/{id}
func (h *Handler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := parseSongID(r)
	if !ok {
		writeError(w, http.StatusNotFound, repository.ErrSongNotFound.Error())
		return
	}

	var update model.SongUpdate
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSongBody)).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.songs.UpdateSong(r.Context(), songID, update); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			writeError(w, http.StatusNotFound, repository.ErrSongNotFound.Error())
			return
		}
		logger.Error("Update song error", logger.ErrorField(err), logger.Int64("songId", songID))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("Song updated", logger.Int64("songId", songID))
	writeMessage(w, http.StatusOK, "Song updated successfully")
}

// DeleteSongHandler DELETE /delete_song/{id}
func (h *Handler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := parseSongID(r)
	if !ok {
		writeError(w, http.StatusNotFound, repository.ErrSongNotFound.Error())
		return
	}

	if err := h.songs.DeleteSong(r.Context(), songID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			writeError(w, http.StatusNotFound, repository.ErrSongNotFound.Error())
			return
		}
		logger.Error("Delete song error", logger.ErrorField(err), logger.Int64("songId", songID))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("Song deleted", logger.Int64("songId", songID))
	writeMessage(w, http.StatusOK, "Song deleted successfully")
}
