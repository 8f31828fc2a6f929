package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/models"
	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// ProgrammeHandler exposes the curriculum document endpoints.
type ProgrammeHandler struct {
	programmes *service.ProgrammeService
}

// NewProgrammeHandler constructs ProgrammeHandler.
func NewProgrammeHandler(programmes *service.ProgrammeService) *ProgrammeHandler {
	return &ProgrammeHandler{programmes: programmes}
}

// List godoc
// @Summary List programmes
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Param moduleId query string false "Filter by module"
// @Param regionaleId query string false "Filter by regional institution"
// @Param statut query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /programmes [get]
func (h *ProgrammeHandler) List(c *gin.Context) {
	var filter models.ProgrammeFilter
	filter.ModuleID = c.Query("moduleId")
	filter.EtablissementRegionaleID = c.Query("regionaleId")
	if raw := c.Query("statut"); raw != "" {
		statut := models.ProgrammeStatut(raw)
		filter.Statut = &statut
	}
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	programmes, total, err := h.programmes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programmes, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get godoc
// @Summary Get one programme
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Programme ID"
// @Success 200 {object} response.Envelope
// @Router /programmes/{id} [get]
func (h *ProgrammeHandler) Get(c *gin.Context) {
	programme, err := h.programmes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Create godoc
// @Summary Author a programme for national review
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateProgrammeRequest true "Programme payload"
// @Success 201 {object} response.Envelope
// @Router /programmes [post]
func (h *ProgrammeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementRegionaleID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a regional institution"))
		return
	}
	var req service.CreateProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	programme, err := h.programmes.Create(c.Request.Context(), req, claims.EtablissementRegionaleID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, programme)
}

// Update godoc
// @Summary Edit programme content while pending or rejected
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Programme ID"
// @Param payload body service.UpdateProgrammeRequest true "Content payload"
// @Success 200 {object} response.Envelope
// @Router /programmes/{id} [put]
func (h *ProgrammeHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementRegionaleID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a regional institution"))
		return
	}
	var req service.UpdateProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	programme, err := h.programmes.Update(c.Request.Context(), c.Param("id"), claims.EtablissementRegionaleID, req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Validate godoc
// @Summary Validate a pending programme
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Programme ID"
// @Param payload body service.DecideProgrammeRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /programmes/{id}/validate [put]
func (h *ProgrammeHandler) Validate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.DecideProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	programme, err := h.programmes.Validate(c.Request.Context(), c.Param("id"), req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Reject godoc
// @Summary Reject a pending programme
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Programme ID"
// @Param payload body service.DecideProgrammeRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /programmes/{id}/reject [put]
func (h *ProgrammeHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.DecideProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	programme, err := h.programmes.Reject(c.Request.Context(), c.Param("id"), req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}
