package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/service"
)

// Largest request body accepted, sized for a collection import.
const maxBodyBytes = 10 << 20

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes mounts every authenticated route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /me", h.withUser(h.HandleMe))
	mux.HandleFunc("GET /snapshot", h.withUser(h.HandleSnapshot))

	mux.HandleFunc("GET /collections/{collection}", h.withUser(h.HandleExport))
	mux.HandleFunc("PUT /collections/{collection}", h.withUser(h.HandleImport))
	mux.HandleFunc("DELETE /collections/{collection}", h.withUser(h.HandleClear))

	mux.HandleFunc("POST /sync/push", h.withUser(h.HandlePush))
	mux.HandleFunc("POST /sync/pull", h.withUser(h.HandlePull))
	mux.HandleFunc("PUT /sync/token", h.withUser(h.HandleSaveToken))

	mux.HandleFunc("GET /notebooks", h.withUser(h.HandleListNotebooks))
	mux.HandleFunc("POST /notebooks", h.withUser(h.HandleCreateNotebook))
	mux.HandleFunc("POST /notebooks/ensure", h.withUser(h.HandleEnsureNotebook))
	mux.HandleFunc("GET /notebooks/{id}", h.withUser(h.HandleGetNotebook))
	mux.HandleFunc("PATCH /notebooks/{id}", h.withUser(h.HandleRenameNotebook))
	mux.HandleFunc("DELETE /notebooks/{id}", h.withUser(h.HandleDeleteNotebook))
	mux.HandleFunc("POST /notebooks/{id}/pages", h.withUser(h.HandleAddPage))
	mux.HandleFunc("PATCH /notebooks/{id}/pages/{pageId}", h.withUser(h.HandleUpdatePage))
	mux.HandleFunc("DELETE /notebooks/{id}/pages/{pageId}", h.withUser(h.HandleDeletePage))

	mux.HandleFunc("GET /folders", h.withUser(h.HandleListFolders))
	mux.HandleFunc("POST /folders", h.withUser(h.HandleCreateFolder))
	mux.HandleFunc("PATCH /folders/{id}", h.withUser(h.HandleRenameFolder))
	mux.HandleFunc("DELETE /folders/{id}", h.withUser(h.HandleDeleteFolder))

	mux.HandleFunc("GET /flashcards", h.withUser(h.HandleListFlashcards))
	mux.HandleFunc("POST /flashcards", h.withUser(h.HandleCreateFlashcard))
	mux.HandleFunc("PATCH /flashcards/{id}", h.withUser(h.HandleUpdateFlashcard))
	mux.HandleFunc("PUT /flashcards/{id}/folder", h.withUser(h.HandleMoveFlashcard))
	mux.HandleFunc("DELETE /flashcards/{id}", h.withUser(h.HandleDeleteFlashcard))

	mux.HandleFunc("GET /projects", h.withUser(h.HandleListProjects))
	mux.HandleFunc("POST /projects", h.withUser(h.HandleCreateProject))
	mux.HandleFunc("GET /projects/{id}", h.withUser(h.HandleGetProject))
	mux.HandleFunc("PATCH /projects/{id}", h.withUser(h.HandleRenameProject))
	mux.HandleFunc("DELETE /projects/{id}", h.withUser(h.HandleDeleteProject))
	mux.HandleFunc("POST /projects/{id}/items", h.withUser(h.HandleAddProjectItem))
	mux.HandleFunc("DELETE /projects/{id}/items/{kind}/{itemId}", h.withUser(h.HandleRemoveProjectItem))
}

type userHandler func(w http.ResponseWriter, r *http.Request, userId string)

// withUser resolves the bearer token before calling next.
func (h *Handler) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := h.getTokenFromAuthHeader(r)
		userId, err := h.Service.AuthenticateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next(w, r, userId)
	}
}

type meResponse struct {
	Id       string `json:"id"`
	HasToken bool   `json:"hasToken"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request, userId string) {
	hasToken, err := h.Service.HasToken(r.Context(), userId)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, meResponse{Id: userId, HasToken: hasToken})
}

func (h *Handler) sendResponse(w http.ResponseWriter, resp any) {
	h.sendResponseStatus(w, http.StatusOK, resp)
}

func (h *Handler) sendResponseStatus(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// sendError maps service errors to HTTP statuses. Unexpected errors are
// logged and hidden from the caller.
func (h *Handler) sendError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidEntity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrEmptyCard),
		errors.Is(err, service.ErrUnknownFolder):
		status = http.StatusBadRequest
	case errors.Is(err, localstore.ErrEmptyUserID):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAsyncUnavailable):
		status = http.StatusServiceUnavailable
	default:
		log.Printf("Request failed: %v", err)
		h.sendResponseStatus(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	h.sendResponseStatus(w, status, errorResponse{Error: err.Error()})
}

// decodeBody reads a JSON request body. It answers the request itself when
// the body is unusable.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.sendResponseStatus(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}
