package controllers

import (
	"log/slog"
	"net/http"

	"ensembleplanner/internal/delivery/http/helpers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// PostMessageRequest is the request body for POST /events/{eventID}/messages.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// Validate implements Validator.
func (p PostMessageRequest) Validate() []string {
	if p.Body == "" {
		return []string{"body is required"}
	}
	return nil
}

type ChatController struct {
	Logger  *slog.Logger
	Service domain.ChatService
}

func NewChatController(logger *slog.Logger, svc domain.ChatService) *ChatController {
	return &ChatController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMessages godoc
// @Summary List event chat messages
// @Description Readable by the owning organizer and performers with a confirmed participation.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains messages"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/messages [get]
func (c *ChatController) ListMessages(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	msgs, err := c.Service.ListMessages(r.Context(), p, eventID)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msgs)
}

// PostMessage godoc
// @Summary Post an event chat message
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body PostMessageRequest true "Message body"
// @Success 201 {object} helpers.APIResponse "data contains the message"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/messages [post]
func (c *ChatController) PostMessage(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req PostMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	msg, err := c.Service.PostMessage(r.Context(), p, eventID, req.Body)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, msg)
}

func (c *ChatController) logIfInternal(r *http.Request, err error) {
	if !isDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
