package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/models"
	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// OffreHandler exposes offer and curriculum endpoints.
type OffreHandler struct {
	offres *service.OffreService
}

// NewOffreHandler constructs OffreHandler.
func NewOffreHandler(offres *service.OffreService) *OffreHandler {
	return &OffreHandler{offres: offres}
}

// List godoc
// @Summary List offers
// @Tags Offres
// @Produce json
// @Param specialiteId query string false "Filter by specialty"
// @Param etablissementId query string false "Filter by training institution"
// @Param search query string false "Search designation"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /offres [get]
func (h *OffreHandler) List(c *gin.Context) {
	var filter models.OffreFilter
	filter.SpecialiteID = c.Query("specialiteId")
	filter.EtablissementFormationID = c.Query("etablissementId")
	filter.Search = c.Query("search")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	offres, total, err := h.offres.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offres, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get godoc
// @Summary Get one offer
// @Tags Offres
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Envelope
// @Router /offres/{id} [get]
func (h *OffreHandler) Get(c *gin.Context) {
	offre, err := h.offres.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offre, nil)
}

// Create godoc
// @Summary Create an offer for the calling training institution
// @Tags Offres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateOffreRequest true "Offer payload"
// @Success 201 {object} response.Envelope
// @Router /offres [post]
func (h *OffreHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementFormationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a training institution"))
		return
	}
	var req service.CreateOffreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offre, err := h.offres.Create(c.Request.Context(), req, claims.EtablissementFormationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offre)
}

// ListModules godoc
// @Summary List the offer curriculum
// @Tags Offres
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Envelope
// @Router /offres/{id}/modules [get]
func (h *OffreHandler) ListModules(c *gin.Context) {
	modules, err := h.offres.ListModules(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// AttachModule godoc
// @Summary Attach a module to the offer curriculum
// @Tags Offres
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param moduleId path string true "Module ID"
// @Success 204
// @Router /offres/{id}/modules/{moduleId} [put]
func (h *OffreHandler) AttachModule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementFormationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a training institution"))
		return
	}
	if err := h.offres.AttachModule(c.Request.Context(), c.Param("id"), c.Param("moduleId"), claims.EtablissementFormationID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachModule godoc
// @Summary Detach a module from the offer curriculum
// @Tags Offres
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param moduleId path string true "Module ID"
// @Success 204
// @Router /offres/{id}/modules/{moduleId} [delete]
func (h *OffreHandler) DetachModule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementFormationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a training institution"))
		return
	}
	if err := h.offres.DetachModule(c.Request.Context(), c.Param("id"), c.Param("moduleId"), claims.EtablissementFormationID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
