package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/models"
	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// InscriptionHandler exposes enrollment endpoints.
type InscriptionHandler struct {
	inscriptions *service.InscriptionService
	stagiaires   stagiaireDirectory
}

// NewInscriptionHandler constructs InscriptionHandler.
func NewInscriptionHandler(inscriptions *service.InscriptionService, stagiaires stagiaireDirectory) *InscriptionHandler {
	return &InscriptionHandler{inscriptions: inscriptions, stagiaires: stagiaires}
}

// List godoc
// @Summary List enrollments
// @Tags Inscriptions
// @Produce json
// @Security BearerAuth
// @Param stagiaireId query string false "Filter by stagiaire"
// @Param offreId query string false "Filter by offer"
// @Param statut query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /inscriptions [get]
func (h *InscriptionHandler) List(c *gin.Context) {
	var filter models.InscriptionFilter
	filter.StagiaireID = c.Query("stagiaireId")
	filter.OffreID = c.Query("offreId")
	filter.Statut = models.InscriptionStatut(c.Query("statut"))
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	inscriptions, total, err := h.inscriptions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inscriptions, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get godoc
// @Summary Get one enrollment
// @Tags Inscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /inscriptions/{id} [get]
func (h *InscriptionHandler) Get(c *gin.Context) {
	inscription, err := h.inscriptions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inscription, nil)
}

// Register godoc
// @Summary Enroll the calling stagiaire in an offer
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RegisterInscriptionRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /inscriptions [post]
func (h *InscriptionHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stagiaire, err := resolveStagiaire(c.Request.Context(), h.stagiaires, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RegisterInscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inscription, err := h.inscriptions.Register(c.Request.Context(), req, stagiaire.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inscription)
}

// Decide godoc
// @Summary Accept or reject a pending enrollment
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param payload body service.DecideInscriptionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /inscriptions/{id}/decision [put]
func (h *InscriptionHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.DecideInscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inscription, err := h.inscriptions.Decide(c.Request.Context(), c.Param("id"), req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inscription, nil)
}

// Cancel godoc
// @Summary Cancel the calling stagiaire's enrollment
// @Tags Inscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /inscriptions/{id}/cancel [put]
func (h *InscriptionHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stagiaire, err := resolveStagiaire(c.Request.Context(), h.stagiaires, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	inscription, err := h.inscriptions.Cancel(c.Request.Context(), c.Param("id"), stagiaire.ID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inscription, nil)
}
