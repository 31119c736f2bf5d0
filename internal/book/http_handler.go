package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"booklibrary/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Register mounts the book routes on mux. Writes are wrapped by requireAdmin.
func (h *HTTPHandler) Register(mux *http.ServeMux, requireAdmin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/by-title", h.GetByTitle)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.Handle("POST /books", requireAdmin(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /books/{id}", requireAdmin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /books/{id}", requireAdmin(http.HandlerFunc(h.Delete)))
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := ListQuery{
		Author: query.Get("author"),
		Type:   query.Get("type"),
		Cursor: query.Get("cursor"),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "limit must be an integer", nil)
			return
		}
		q.Limit = limit
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var meta map[string]any
	if page.NextCursor != "" {
		meta = map[string]any{"next_cursor": page.NextCursor}
	}
	httpx.JSONSuccess(w, r, page.Books, meta)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// GetByTitle handles GET /books/by-title?title=
func (h *HTTPHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/books/"+b.ID)
	httpx.JSONCreated(w, r, b)
}

// Update handles PATCH /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", err.Error(), nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, 0, len(verr.Fields))
		for _, fe := range verr.Fields {
			details = append(details, httpx.ErrorDetail{Field: fe.Field, Message: fe.Message})
		}
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book", details)
	case errors.Is(err, ErrInvalid):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book", nil)
	case errors.Is(err, ErrDuplicateTitle):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_TITLE", "A book with this title already exists", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInvalidCursor):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CURSOR", "Invalid cursor", nil)
	default:
		h.logger.Error("book request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
