package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/san360/gh-demo/internal/model"
	"github.com/san360/gh-demo/internal/service"
)

// Version is the application version.
const Version = "1.0.0"

// ProductHandler handles REST API requests for catalog products.
type ProductHandler struct {
	service service.Service
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance.
func NewProductHandler(s service.Service, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: s,
		logger:  logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/api/products", h.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/api/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{id:[0-9]+}", h.UpdateProduct).Methods(http.MethodPut)
	router.HandleFunc("/api/products/{id:[0-9]+}", h.DeleteProduct).Methods(http.MethodDelete)
}

// HealthCheck handles GET /health requests.
func (h *ProductHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ListProducts handles GET /api/products requests.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list products")
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id} requests.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get product")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/products requests.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.handleServiceError(w, err, "create product")
		return
	}

	h.writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id} requests.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var input model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		h.handleServiceError(w, err, "update product")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id} requests.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete product")
		return
	}

	h.writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Product deleted successfully",
		Product: product,
	})
}

// productID parses the id path variable. The route pattern already
// restricts it to digits, so a parse failure means the id overflows.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service failures to HTTP responses. Storage
// failures are logged and surface as a generic 500; internal details
// never leak to the caller.
func (h *ProductHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var fieldErr *model.FieldError

	switch {
	case errors.As(err, &fieldErr):
		h.writeError(w, http.StatusBadRequest, fieldErr.Message)
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.Error("service operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *ProductHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, h.logger)
}

// writeError writes an error response with the given status code and
// message.
func (h *ProductHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message}, h.logger)
}

// writeJSON encodes data as a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
