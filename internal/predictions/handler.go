package predictions

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"aquabov-backend/internal/classify"
	"aquabov-backend/internal/shared/server/middleware"
	"aquabov-backend/internal/shared/server/respond"
	"aquabov-backend/internal/shared/telemetry"
)

const (
	maxImageSize = 10 << 20 // 10MB
	// multipart framing on top of the image itself
	maxBodySize = maxImageSize + 512<<10
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prediction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.predict)
	rg.GET("/predictions", h.list)
	rg.GET("/predictions/:id", h.get)
	rg.GET("/predictions/:id/image", h.image)
}

func (h *Handler) predict(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	fileHeader, err := formImage(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "image must be 10MB or smaller", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxImageSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image must be 10MB or smaller", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if len(data) > maxImageSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image must be 10MB or smaller", nil)
		return
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is empty", nil)
		return
	}

	detected := mimetype.Detect(data)
	if !detected.Is(allowedImageTypes[0]) && !detected.Is(allowedImageTypes[1]) {
		respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "only JPEG and PNG images are supported", gin.H{
			"detected": detected.String(),
			"allowed":  allowedImageTypes,
		})
		return
	}
	mimeType := baseType(detected)

	p, err := h.Svc.Predict(c.Request.Context(), userID, fileHeader.Filename, mimeType, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, classify.ErrClassificationFailed), errors.Is(err, classify.ErrNetwork):
			respond.Error(c, http.StatusBadGateway, "analysis_failed", "Analysis failed, please retry", gin.H{"reason": err.Error()})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze image", nil)
		}
		return
	}

	c.Set(middleware.PredictionIDKey, p.ID)
	c.Set(middleware.BreedKey, p.Result.Breed)
	c.Set(middleware.DegradedKey, p.AdvisoryDegraded())
	respond.OK(c, toResponse(p))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.PredictionIDKey, id)

	p, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	respond.OK(c, toResponse(p))
}

func (h *Handler) image(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.PredictionIDKey, id)

	p, rc, err := h.Svc.OpenImage(c.Request.Context(), userID, id)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "private, max-age=3600")
	c.DataFromReader(http.StatusOK, p.SizeBytes, p.MimeType, rc, nil)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list predictions", nil)
		return
	}

	resp := make([]PredictionSummary, 0, len(items))
	for _, p := range items {
		resp = append(resp, toSummary(p))
	}
	respond.OK(c, resp)
}

func (h *Handler) lookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "prediction not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		telemetry.Error("prediction.lookup.failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch prediction", nil)
	}
}

// formImage accepts the upload under "file", or "image" as the classifier names it.
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("file")
	if err == nil {
		return fh, nil
	}
	if errors.Is(err, http.ErrMissingFile) {
		return c.FormFile("image")
	}
	return nil, err
}

func baseType(m *mimetype.MIME) string {
	for _, t := range allowedImageTypes {
		if m.Is(t) {
			return t
		}
	}
	return m.String()
}
