package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"musichub/internal/command"

	"github.com/gin-gonic/gin"
)

// JSONRPCHandler implements the LMS-compatible jsonrpc.js endpoint used
// by third-party control surfaces. The protocol's whole contract is a
// literal "success" for recognized phrases and "command not supported"
// for everything else; there is no structured payload.
type JSONRPCHandler struct {
	dispatcher *command.Dispatcher
	logger     *slog.Logger
}

func NewJSONRPCHandler(dispatcher *command.Dispatcher, logger *slog.Logger) *JSONRPCHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONRPCHandler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes binds the endpoint. Some controllers send GET with a
// body, so both methods are accepted.
func (h *JSONRPCHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/jsonrpc.js", h.Handle)
	r.POST("/jsonrpc.js", h.Handle)
}

// jsonRPCRequest is the subset of the LMS request the gateway reads:
// params is [player_id, [word, word, ...]].
type jsonRPCRequest struct {
	ID     any               `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (h *JSONRPCHandler) Handle(c *gin.Context) {
	var req jsonRPCRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Params) < 2 {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	var playerID string
	var words []string
	if err := json.Unmarshal(req.Params[0], &playerID); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}
	if err := json.Unmarshal(req.Params[1], &words); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	h.logger.Debug("jsonrpc_request", "player_id", playerID, "words", words)

	cmd, err := command.ParsePhrase(playerID, words)
	if errors.Is(err, command.ErrNotSupported) {
		c.String(http.StatusOK, "command not supported")
		return
	}
	if err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.dispatcher.Dispatch(ctx, cmd); err != nil {
		if errors.Is(err, command.ErrUnknownTarget) {
			c.String(http.StatusNotFound, "unknown player")
			return
		}
		h.logger.Error("jsonrpc_dispatch_failed",
			"player_id", playerID,
			"command", cmd.Name,
			"error", err.Error(),
		)
		c.String(http.StatusInternalServerError, "command failed")
		return
	}

	c.String(http.StatusOK, "success")
}
