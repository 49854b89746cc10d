package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"OfflinePlayer/logger"
	"OfflinePlayer/storage"

	"github.com/gorilla/mux"
)

// HomeHandler GET /
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, homeText)
}

// CheckDirectoryHandler GET /check_directory
func (h *Handler) CheckDirectoryHandler(w http.ResponseWriter, r *http.Request) {
	cwd, err := os.Getwd()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Current working directory: %s", cwd)
}

// ListMediaHandler GET /list_songs 列出媒体目录下的文件名
func (h *Handler) ListMediaHandler(w http.ResponseWriter, r *http.Request) {
	names, err := h.media.List(r.Context(), "")
	if err != nil {
		if errors.Is(err, storage.ErrMediaDirMissing) {
			http.Error(w, storage.ErrMediaDirMissing.Error(), http.StatusNotFound)
			return
		}
		logger.Error("List media error", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// ServeMediaHandler GET /songs/{path} 支持 Range 请求
func (h *Handler) ServeMediaHandler(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]

	obj, err := h.media.Open(r.Context(), filePath)
	if err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			writeError(w, http.StatusNotFound, "File not found: "+filePath)
			return
		}
		logger.Error("Serve song error", logger.ErrorField(err), logger.String("path", filePath))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	http.ServeContent(w, r, filePath, obj.ModTime, obj.Body)
}
