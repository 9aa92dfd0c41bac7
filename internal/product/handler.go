package product

import (
	"context"
	"net/http"
	"strconv"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListProducts(ctx context.Context, f Filter) (*Page, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Get("/sku/{sku}", h.GetProductBySKU)
	r.Get("/{id}", h.GetProduct)
	r.Post("/", h.CreateProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f := Filter{Category: r.URL.Query().Get("category")}
	var err error
	if f.Page, err = h.QueryInt(r, "page", DefaultPage); err != nil {
		h.WriteFailure(w, err, "Invalid page")
		return
	}
	if f.Size, err = h.QueryInt(r, "size", DefaultPageSize); err != nil {
		h.WriteFailure(w, err, "Invalid size")
		return
	}
	if f.ActiveOnly, err = h.QueryBool(r, "activeOnly", false); err != nil {
		h.WriteFailure(w, err, "Invalid activeOnly")
		return
	}

	page, err := h.Service.ListProducts(r.Context(), f)
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch products")
		return
	}
	h.WriteJSON(w, http.StatusOK, PageResponse{Page: *page, Success: true})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.WriteFailure(w, err, "Invalid product id")
		return
	}

	p, err := h.Service.GetProduct(r.Context(), id)
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch product")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{Product: p, Success: true})
}

func (h *Handler) GetProductBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProductBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch product")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{Product: p, Success: true})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	p, err := h.Service.CreateProduct(r.Context(), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to create product")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{Product: p, Message: "Product created successfully", Success: true})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.WriteFailure(w, err, "Invalid product id")
		return
	}

	var req ProductRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	p, err := h.Service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to update product")
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailResponse{Product: p, Message: "Product updated successfully", Success: true})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.WriteFailure(w, err, "Invalid product id")
		return
	}

	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		h.WriteFailure(w, err, "Failed to delete product")
		return
	}
	h.WriteSuccess(w, transport.Envelope{"message": "Product deleted successfully"})
}

func productID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationFieldError("id", "id must be a positive integer", errs.ErrCodeInvalidParameter)
	}
	return id, nil
}
