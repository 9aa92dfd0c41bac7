package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, req UserRequest) (*User, error)
	UpdateUser(ctx context.Context, id string, req UserRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Get("/{id}", h.GetUser)
	r.Post("/", h.CreateUser)
	r.Put("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch users")
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Users: users, Success: true})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch user")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{User: u, Success: true})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	u, err := h.Service.CreateUser(r.Context(), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to create user")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{User: u, Message: "User created successfully", Success: true})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to update user")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{User: u, Message: "User updated successfully", Success: true})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteFailure(w, err, "Failed to delete user")
		return
	}
	h.WriteSuccess(w, transport.Envelope{"message": "User deleted successfully"})
}
