package controllers

import (
	"log/slog"
	"net/http"

	"ensembleplanner/internal/delivery/http/helpers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// IssueContractRequest is the request body for POST /events/{eventID}/contract.
type IssueContractRequest struct {
	GrossFee float64 `json:"gross_fee"`
}

// Validate implements Validator.
func (i IssueContractRequest) Validate() []string {
	if i.GrossFee <= 0 {
		return []string{"gross_fee must be positive"}
	}
	return nil
}

type ContractController struct {
	Logger  *slog.Logger
	Service domain.ContractService
}

func NewContractController(logger *slog.Logger, svc domain.ContractService) *ContractController {
	return &ContractController{
		Logger:  logger,
		Service: svc,
	}
}

// Issue godoc
// @Summary Issue a contract for the caller's confirmed participation
// @Description Requires a confirmed participation for the event. At most one contract exists per participation.
// @Tags contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body IssueContractRequest true "Gross fee"
// @Success 201 {object} helpers.APIResponse "data contains the contract"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (no confirmed participation)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (contract already issued)"
// @Router /events/{eventID}/contract [post]
func (c *ContractController) Issue(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req IssueContractRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	contract, err := c.Service.Issue(r.Context(), p.ID, eventID, req.GrossFee)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, contract)
}

// GetOwn godoc
// @Summary Get the caller's contract for an event
// @Tags contracts
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the contract"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no confirmed participation or no contract yet)"
// @Router /events/{eventID}/contract [get]
func (c *ContractController) GetOwn(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	contract, err := c.Service.GetOwn(r.Context(), p.ID, eventID)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, contract)
}

// ListByEvent godoc
// @Summary List an event's contracts
// @Tags contracts
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains contracts"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/contracts [get]
func (c *ContractController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	contracts, err := c.Service.ListByEvent(r.Context(), p.ID, eventID)
	if err != nil {
		c.logIfInternal(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, contracts)
}

func (c *ContractController) logIfInternal(r *http.Request, err error) {
	if !isDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
