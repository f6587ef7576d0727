package controllers

import (
	"log/slog"
	"net/http"

	"ensembleplanner/internal/delivery/http/helpers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// RespondRequest is the request body for POST /events/{eventID}/response.
type RespondRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Validate implements Validator.
func (r RespondRequest) Validate() []string {
	if r.Status == "" {
		return []string{"status is required"}
	}
	if !domain.ParticipationStatus(r.Status).Valid() {
		return []string{"status must be confirmed or declined"}
	}
	return nil
}

// ReviewRequest is the request body for PATCH /events/{eventID}/participants/{performerID}.
type ReviewRequest struct {
	AttendanceConfirmed *bool `json:"attendance_confirmed"`
	Rating              *int  `json:"rating"`
}

// Validate implements Validator.
func (r ReviewRequest) Validate() []string {
	var errs []string
	if r.AttendanceConfirmed == nil && r.Rating == nil {
		errs = append(errs, "nothing to update")
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		errs = append(errs, "rating must be between 1 and 5")
	}
	return errs
}

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewParticipationController(logger *slog.Logger, svc domain.InvitationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// Respond godoc
// @Summary Answer an invitation
// @Description Records the performer's response. The participation, the invitation transition, and the confirmed counter land in one transaction. A second response returns 409.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RespondRequest true "Response (confirmed or declined) and optional notes"
// @Success 201 {object} helpers.APIResponse "data contains the participation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no pending invitation)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already responded)"
// @Router /events/{eventID}/response [post]
func (c *ParticipationController) Respond(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req RespondRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	part, err := c.Service.Respond(r.Context(), p.ID, eventID, domain.ParticipationStatus(req.Status), req.Notes)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, part)
}

// Remove godoc
// @Summary Remove a participant
// @Description Deletes the participation and its paired invitation, then recomputes both counters. The performer may be re-invited afterwards.
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param performerID path string true "Performer ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants/{performerID} [delete]
func (c *ParticipationController) Remove(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	performerID := r.PathValue("performerID")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.RemoveParticipant(r.Context(), p.ID, eventID, performerID); err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"removed": performerID})
}

// Review godoc
// @Summary Record post-hoc attendance and rating
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param performerID path string true "Performer ID"
// @Param body body ReviewRequest true "Attendance flag and/or rating (1-5)"
// @Success 200 {object} helpers.APIResponse "data contains the participation"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants/{performerID} [patch]
func (c *ParticipationController) Review(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	performerID := r.PathValue("performerID")
	var req ReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	part, err := c.Service.ReviewParticipation(r.Context(), p.ID, eventID, performerID, req.AttendanceConfirmed, req.Rating)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, part)
}

func (c *ParticipationController) logIfInternal(r *http.Request, err error) {
	if !isDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
