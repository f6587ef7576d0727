package controllers

import (
	"log/slog"
	"net/http"

	"ensembleplanner/internal/delivery/http/helpers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// InviteRequest is the request body for POST /events/{eventID}/invitations.
type InviteRequest struct {
	PerformerIDs []string `json:"performer_ids"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	if len(i.PerformerIDs) == 0 {
		return []string{"performer_ids is required"}
	}
	return nil
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite performers to an event
// @Description Batch invite by performer ID. Performers already invited are skipped; the result reports invited and skipped counts plus the recomputed invited_count.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body InviteRequest true "Performer IDs"
// @Success 201 {object} helpers.APIResponse "data contains the invite result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (empty or all-duplicate batch)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) Invite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.Invite(r.Context(), p.ID, eventID, req.PerformerIDs)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Cancel godoc
// @Summary Cancel a pending invitation
// @Description Deletes a still-pending invitation and recomputes invited_count. Responded invitations cannot be cancelled.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param performerID path string true "Performer ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no pending invitation)"
// @Router /events/{eventID}/invitations/{performerID} [delete]
func (c *InvitationController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	performerID := r.PathValue("performerID")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), p.ID, eventID, performerID); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"cancelled": performerID})
}

func (c *InvitationController) logIfInternal(r *http.Request, err error) {
	if !isDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
