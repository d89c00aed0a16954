package v1

import (
	"io"
	"net/http"

	"github.com/flexprice/adminconsole/internal/api/dto"
	"github.com/flexprice/adminconsole/internal/config"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/service"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/gin-gonic/gin"
)

type PlanWizardHandler struct {
	service service.PlanWizardService
	config  *config.Configuration
	log     *logger.Logger
}

func NewPlanWizardHandler(
	service service.PlanWizardService,
	config *config.Configuration,
	log *logger.Logger,
) *PlanWizardHandler {
	return &PlanWizardHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// Open handles POST /v1/tenants/{tenant_id}/plan-wizards
func (h *PlanWizardHandler) Open(c *gin.Context) {
	var req dto.OpenPlanWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.TenantID = types.GetTenantID(c.Request.Context())

	resp, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/plan-wizards/{id}
func (h *PlanWizardHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateField handles PATCH /v1/plan-wizards/{id}/fields
func (h *PlanWizardHandler) UpdateField(c *gin.Context) {
	var req dto.UpdateWizardFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateField(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// NextStep handles POST /v1/plan-wizards/{id}/next
func (h *PlanWizardHandler) NextStep(c *gin.Context) {
	resp, err := h.service.NextStep(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PrevStep handles POST /v1/plan-wizards/{id}/prev
func (h *PlanWizardHandler) PrevStep(c *gin.Context) {
	resp, err := h.service.PrevStep(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResetCustomPrice handles POST /v1/plan-wizards/{id}/reset-custom-price
func (h *PlanWizardHandler) ResetCustomPrice(c *gin.Context) {
	resp, err := h.service.ResetCustomPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AttachReceipt handles POST /v1/plan-wizards/{id}/receipt
func (h *PlanWizardHandler) AttachReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A receipt file is required").
			Mark(ierr.ErrValidation))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("The receipt file could not be read").
			Mark(ierr.ErrValidation))
		return
	}
	defer file.Close()

	// one byte past the limit is enough to reject an oversized file
	data, err := io.ReadAll(io.LimitReader(file, h.config.Wizard.ReceiptMaxBytes+1))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("The receipt file could not be read").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AttachReceipt(c.Request.Context(), c.Param("id"), header.Filename, data)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Submit handles POST /v1/plan-wizards/{id}/submit
func (h *PlanWizardHandler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Close handles DELETE /v1/plan-wizards/{id}
func (h *PlanWizardHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
