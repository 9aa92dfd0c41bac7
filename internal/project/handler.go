package project

import (
	"context"
	"net/http"

	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListProjects(ctx context.Context, ownerID string) ([]Project, error)
	GetProject(ctx context.Context, id, ownerID string) (*Project, error)
	CreateProject(ctx context.Context, req ProjectRequest) (*Project, error)
	UpdateProject(ctx context.Context, id string, req ProjectRequest) (*Project, error)
	DeleteProject(ctx context.Context, id, ownerID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListProjects)
	r.Get("/{id}", h.GetProject)
	r.Post("/", h.CreateProject)
	r.Put("/{id}", h.UpdateProject)
	r.Delete("/{id}", h.DeleteProject)
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListProjects(r.Context(), h.OwnerID(r))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch projects")
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Projects: projects, Success: true})
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProject(r.Context(), chi.URLParam(r, "id"), h.OwnerID(r))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch project")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{Project: p, Success: true})
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	p, err := h.Service.CreateProject(r.Context(), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to create project")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{Project: p, Message: "Project created successfully", Success: true})
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	p, err := h.Service.UpdateProject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to update project")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{Project: p, Message: "Project updated successfully", Success: true})
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProject(r.Context(), chi.URLParam(r, "id"), h.OwnerID(r)); err != nil {
		h.WriteFailure(w, err, "Failed to delete project")
		return
	}

	h.WriteSuccess(w, transport.Envelope{"message": "Project deleted successfully"})
}
