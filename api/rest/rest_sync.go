package rest

import (
	"io"
	"net/http"

	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

func statusCode(st service.Status) int {
	switch st.Kind {
	case service.StatusQueued:
		return http.StatusAccepted
	case service.StatusMissingToken:
		return http.StatusBadRequest
	case service.StatusInvalidToken:
		return http.StatusUnprocessableEntity
	case service.StatusFailed:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func (h *Handler) HandlePush(w http.ResponseWriter, r *http.Request, userId string) {
	h.handleSync(w, r, userId, worker.ActionPush)
}

func (h *Handler) HandlePull(w http.ResponseWriter, r *http.Request, userId string) {
	h.handleSync(w, r, userId, worker.ActionPull)
}

// handleSync runs the sync inline, or queues it when ?async=true.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request, userId string, action worker.SyncAction) {
	if r.URL.Query().Get("async") == "true" {
		st, err := h.Service.RequestSync(r.Context(), userId, action)
		if err != nil {
			h.sendError(w, err)
			return
		}
		h.sendResponseStatus(w, statusCode(st), st)
		return
	}

	var st service.Status
	if action == worker.ActionPush {
		st = h.Service.Push(r.Context(), userId)
	} else {
		st = h.Service.Pull(r.Context(), userId)
	}
	h.sendResponseStatus(w, statusCode(st), st)
}

type saveTokenRequest struct {
	Token string `json:"token"`
}

func (h *Handler) HandleSaveToken(w http.ResponseWriter, r *http.Request, userId string) {
	var req saveTokenRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	st := h.Service.SaveToken(r.Context(), userId, req.Token)
	h.sendResponseStatus(w, statusCode(st), st)
}

func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request, userId string) {
	snap, err := h.Service.Snapshot(r.Context(), userId)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, snap)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) (models.Collection, bool) {
	c, err := models.ParseCollection(r.PathValue("collection"))
	if err != nil {
		h.sendResponseStatus(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return "", false
	}
	return c, true
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request, userId string) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.ExportCollection(r.Context(), userId, c)
	if err != nil {
		h.sendError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request, userId string) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendResponseStatus(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return
	}
	if err := h.Service.ImportCollection(r.Context(), userId, c, doc); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request, userId string) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}
	if err := h.Service.ClearCollection(r.Context(), userId, c); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
