package rest

import (
	"net/http"
)

func (h *Handler) ListRoot(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	contents, err := h.storage.ListRoot(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolderContentsResponse(contents))
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req CreateFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	f, err := h.storage.CreateFolder(r.Context(), userID, req.Name, req.ParentFolderID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFolderResponse(f))
}

func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	contents, err := h.storage.GetFolder(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolderContentsResponse(contents))
}

func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.storage.RenameFolder(r.Context(), userID, id, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolderResponse(f))
}

func (h *Handler) MoveFolder(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.storage.MoveFolder(r.Context(), userID, id, req.ParentFolderID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolderResponse(f))
}

func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, err := target(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.storage.DeleteFolder(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
