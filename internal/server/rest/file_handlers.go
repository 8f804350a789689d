package rest

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req UploadFileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if req.Name == "" {
		h.writeServiceError(w, r, fmt.Errorf("%w: file name is required", common.ErrorInvalidInput))
		return
	}
	if req.Content == "" {
		h.writeServiceError(w, r, fmt.Errorf("%w: file content is required", common.ErrorInvalidInput))
		return
	}

	content, err := base64.StdEncoding.Strict().DecodeString(req.Content)
	if err != nil {
		h.writeServiceError(w, r, fmt.Errorf("%w: invalid base64 content", common.ErrorInvalidInput))
		return
	}

	f, err := h.storage.UploadFile(r.Context(), userID, req.Name, content, req.ParentFolderID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "file uploaded", "user_id", userID, "file_id", f.ID, "size", f.Size)
	writeJSON(w, http.StatusCreated, toFileResponse(f))
}

func (h *Handler) GetFileMetadata(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	f, err := h.storage.GetFileMetadata(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(f))
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	f, err := h.storage.DownloadFile(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DownloadResponse{
		FileResponse: toFileResponse(f),
		Content:      base64.StdEncoding.EncodeToString(f.Content),
	})
}

func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	f, err := h.storage.RenameFile(r.Context(), userID, id, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(f))
}

func (h *Handler) MoveFile(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	f, err := h.storage.MoveFile(r.Context(), userID, id, req.ParentFolderID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(f))
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.storage.DeleteFile(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
