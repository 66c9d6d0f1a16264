package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aquabov-backend/internal/llm"
	"aquabov-backend/internal/shared/server/respond"
)

const maxMessageLen = 2000

// Handler wires chat and FAQ routes to the relay.
type Handler struct {
	Relay *Relay
}

// NewHandler constructs a Handler.
func NewHandler(relay *Relay) *Handler {
	return &Handler{Relay: relay}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.chat)
	rg.GET("/faq", h.faq)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Online   bool   `json:"online"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	if len(req.Message) > maxMessageLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is too long", gin.H{"maxLength": maxMessageLen})
		return
	}

	reply, err := h.Relay.SendMessage(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, llm.ErrRequestFailed):
			respond.Error(c, http.StatusBadGateway, "chat_failed", "Failed to get chat response. Please try again.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to get chat response", nil)
		}
		return
	}
	respond.OK(c, chatResponse{Response: reply, Online: h.Relay.Online()})
}

func (h *Handler) faq(c *gin.Context) {
	content, err := LoadFAQ()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load faq", nil)
		return
	}
	respond.OK(c, content)
}
