package rest

import (
	"net/http"

	"github.com/SunnySoftwareTech/Drafty/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

type ensureNotebookResponse struct {
	Notebook models.Notebook `json:"notebook"`
	Created  bool            `json:"created"`
}

func (h *Handler) HandleListNotebooks(w http.ResponseWriter, r *http.Request, userId string) {
	h.sendResponse(w, h.Service.ListNotebooks(r.Context(), userId))
}

func (h *Handler) HandleCreateNotebook(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	nb, err := h.Service.CreateNotebook(r.Context(), userId, req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponseStatus(w, http.StatusCreated, nb)
}

func (h *Handler) HandleEnsureNotebook(w http.ResponseWriter, r *http.Request, userId string) {
	nb, created, err := h.Service.EnsureNotebook(r.Context(), userId)
	if err != nil {
		h.sendError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.sendResponseStatus(w, status, ensureNotebookResponse{Notebook: nb, Created: created})
}

func (h *Handler) HandleGetNotebook(w http.ResponseWriter, r *http.Request, userId string) {
	nb, err := h.Service.GetNotebook(r.Context(), userId, r.PathValue("id"))
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, nb)
}

func (h *Handler) HandleRenameNotebook(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	nb, err := h.Service.RenameNotebook(r.Context(), userId, r.PathValue("id"), req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, nb)
}

func (h *Handler) HandleDeleteNotebook(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Service.DeleteNotebook(r.Context(), userId, r.PathValue("id")); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddPage(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	page, err := h.Service.AddPage(r.Context(), userId, r.PathValue("id"), req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponseStatus(w, http.StatusCreated, page)
}

// updatePageRequest fields are optional; absent ones are left alone.
type updatePageRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

func (h *Handler) HandleUpdatePage(w http.ResponseWriter, r *http.Request, userId string) {
	var req updatePageRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil && req.Content == nil {
		h.sendResponseStatus(w, http.StatusBadRequest, errorResponse{Error: "nothing to update"})
		return
	}

	notebookID, pageID := r.PathValue("id"), r.PathValue("pageId")
	var page models.Page
	var err error
	if req.Name != nil {
		if page, err = h.Service.RenamePage(r.Context(), userId, notebookID, pageID, *req.Name); err != nil {
			h.sendError(w, err)
			return
		}
	}
	if req.Content != nil {
		if page, err = h.Service.UpdatePageContent(r.Context(), userId, notebookID, pageID, *req.Content); err != nil {
			h.sendError(w, err)
			return
		}
	}
	h.sendResponse(w, page)
}

func (h *Handler) HandleDeletePage(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Service.DeletePage(r.Context(), userId, r.PathValue("id"), r.PathValue("pageId")); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListFolders(w http.ResponseWriter, r *http.Request, userId string) {
	h.sendResponse(w, h.Service.ListFolders(r.Context(), userId))
}

func (h *Handler) HandleCreateFolder(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	folder, err := h.Service.CreateFolder(r.Context(), userId, req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponseStatus(w, http.StatusCreated, folder)
}

func (h *Handler) HandleRenameFolder(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	folder, err := h.Service.RenameFolder(r.Context(), userId, r.PathValue("id"), req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, folder)
}

func (h *Handler) HandleDeleteFolder(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Service.DeleteFolder(r.Context(), userId, r.PathValue("id")); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type flashcardRequest struct {
	Front    string  `json:"front"`
	Back     string  `json:"back"`
	FolderId *string `json:"folderId"`
}

type moveFlashcardRequest struct {
	FolderId *string `json:"folderId"`
}

func (h *Handler) HandleListFlashcards(w http.ResponseWriter, r *http.Request, userId string) {
	h.sendResponse(w, h.Service.ListFlashcards(r.Context(), userId, r.URL.Query().Get("folder")))
}

func (h *Handler) HandleCreateFlashcard(w http.ResponseWriter, r *http.Request, userId string) {
	var req flashcardRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	card, err := h.Service.CreateFlashcard(r.Context(), userId, req.Front, req.Back, req.FolderId)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponseStatus(w, http.StatusCreated, card)
}

func (h *Handler) HandleUpdateFlashcard(w http.ResponseWriter, r *http.Request, userId string) {
	var req flashcardRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	card, err := h.Service.UpdateFlashcard(r.Context(), userId, r.PathValue("id"), req.Front, req.Back)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, card)
}

func (h *Handler) HandleMoveFlashcard(w http.ResponseWriter, r *http.Request, userId string) {
	var req moveFlashcardRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	card, err := h.Service.MoveFlashcard(r.Context(), userId, r.PathValue("id"), req.FolderId)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, card)
}

func (h *Handler) HandleDeleteFlashcard(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Service.DeleteFlashcard(r.Context(), userId, r.PathValue("id")); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type projectResponse struct {
	Project models.Project       `json:"project"`
	Live    []models.ProjectItem `json:"live"`
	Stale   []models.ProjectItem `json:"stale"`
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request, userId string) {
	h.sendResponse(w, h.Service.ListProjects(r.Context(), userId))
}

func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	p, err := h.Service.CreateProject(r.Context(), userId, req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponseStatus(w, http.StatusCreated, p)
}

func (h *Handler) HandleGetProject(w http.ResponseWriter, r *http.Request, userId string) {
	p, live, stale, err := h.Service.ResolveProject(r.Context(), userId, r.PathValue("id"))
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, projectResponse{Project: p, Live: live, Stale: stale})
}

func (h *Handler) HandleRenameProject(w http.ResponseWriter, r *http.Request, userId string) {
	var req nameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	p, err := h.Service.RenameProject(r.Context(), userId, r.PathValue("id"), req.Name)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, p)
}

func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Service.DeleteProject(r.Context(), userId, r.PathValue("id")); err != nil {
		h.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddProjectItem(w http.ResponseWriter, r *http.Request, userId string) {
	var item models.ProjectItem
	if !h.decodeBody(w, r, &item) {
		return
	}
	if item.Id == "" {
		h.sendResponseStatus(w, http.StatusBadRequest, errorResponse{Error: "project item needs an id"})
		return
	}
	p, err := h.Service.AddProjectItem(r.Context(), userId, r.PathValue("id"), item)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, p)
}

func (h *Handler) HandleRemoveProjectItem(w http.ResponseWriter, r *http.Request, userId string) {
	item := models.ProjectItem{Kind: models.ItemKind(r.PathValue("kind")), Id: r.PathValue("itemId")}
	if item.Kind == "book" {
		item.Kind = models.KindNotebook
	}
	p, err := h.Service.RemoveProjectItem(r.Context(), userId, r.PathValue("id"), item)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendResponse(w, p)
}
