package chat

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"faq-backend/internal/llm"
	"faq-backend/internal/shared/auth"
	"faq-backend/internal/shared/server/respond"
	"faq-backend/internal/shared/telemetry"
)

const systemPrompt = "You are a helpful assistant for an FAQ generation service. " +
	"Answer questions about the user's generated FAQ using only the provided context. " +
	"If the context does not contain the answer, say so instead of inventing facts. " +
	"Reply in the language the user writes in."

// Handler serves session issuance and the token-gated streaming chat.
type Handler struct {
	Tokens *auth.TokenIssuer
	LLM    llm.Client
}

// NewHandler constructs a chat Handler.
func NewHandler(tokens *auth.TokenIssuer, client llm.Client) *Handler {
	return &Handler{Tokens: tokens, LLM: client}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session", h.createSession)
	rg.POST("/chat", h.chat)
}

type sessionRequest struct {
	UserID  int64  `json:"user_id" binding:"required,gt=0"`
	WPNonce string `json:"wp_nonce"`
}

type chatRequest struct {
	SessionID     string         `json:"session_id"`
	UserID        int64          `json:"user_id"`
	Message       string         `json:"message"`
	VisibleValues []VisibleValue `json:"visible_values"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id is required", nil)
		return
	}

	sessionID := uuid.NewString()
	token, err := h.Tokens.Issue(sessionID, req.UserID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create session", nil)
		return
	}
	c.Set("sessionId", sessionID)

	respond.OK(c, gin.H{
		"session_id": sessionID,
		"token":      token,
	})
}

// chat verifies the bearer token before anything else touches the model, then
// streams the reply as plain text chunks.
func (h *Handler) chat(c *gin.Context) {
	claims, ok := h.authorize(c)
	if !ok {
		return
	}
	c.Set("sessionId", claims.SessionID)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	if ctxLine := BuildContext(req.VisibleValues); ctxLine != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: "Context: " + ctxLine})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	err := h.LLM.CompleteStream(c.Request.Context(), messages, func(chunk string) error {
		if _, werr := c.Writer.WriteString(chunk); werr != nil {
			return werr
		}
		if canFlush {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// Headers are already out; log and end the stream.
		telemetry.Error("chat.stream", map[string]any{
			"session_id": claims.SessionID,
			"error":      err.Error(),
		})
	}
}

// authorize extracts and verifies the bearer token. All failure modes answer
// with the same 401 so callers cannot probe which check tripped.
func (h *Handler) authorize(c *gin.Context) (*auth.SessionClaims, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", auth.ErrInvalidToken.Error(), nil)
		return nil, false
	}

	claims, err := h.Tokens.Verify(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", auth.ErrInvalidToken.Error(), nil)
		return nil, false
	}
	return claims, true
}
