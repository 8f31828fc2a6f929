package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// VisibilityHandler exposes the read-only resolution endpoints: what the
// calling trainee or teacher is entitled to see.
type VisibilityHandler struct {
	visibility  *service.VisibilityService
	stagiaires  stagiaireDirectory
	enseignants enseignantDirectory
}

// NewVisibilityHandler constructs VisibilityHandler.
func NewVisibilityHandler(visibility *service.VisibilityService, stagiaires stagiaireDirectory, enseignants enseignantDirectory) *VisibilityHandler {
	return &VisibilityHandler{visibility: visibility, stagiaires: stagiaires, enseignants: enseignants}
}

// MyModules godoc
// @Summary Modules visible to the calling stagiaire
// @Tags Visibility
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /stagiaire/modules [get]
func (h *VisibilityHandler) MyModules(c *gin.Context) {
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
	modules, err := h.visibility.VisibleModuleDetails(c.Request.Context(), stagiaire.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// MyCourses godoc
// @Summary Accepted courses visible to the calling stagiaire
// @Tags Visibility
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /stagiaire/cours [get]
func (h *VisibilityHandler) MyCourses(c *gin.Context) {
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
	cours, err := h.visibility.VisibleCourses(c.Request.Context(), stagiaire.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}

// MyProgrammes godoc
// @Summary Accepted programmes visible to the calling stagiaire
// @Tags Visibility
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /stagiaire/programmes [get]
func (h *VisibilityHandler) MyProgrammes(c *gin.Context) {
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
	programmes, err := h.visibility.VisibleProgrammes(c.Request.Context(), stagiaire.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programmes, nil)
}

// TeacherModules godoc
// @Summary Modules within the calling enseignant's institution scope
// @Tags Visibility
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /enseignant/modules [get]
func (h *VisibilityHandler) TeacherModules(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	enseignant, err := resolveEnseignant(c.Request.Context(), h.enseignants, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	modules, err := h.visibility.TeacherModules(c.Request.Context(), enseignant.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// TeacherCourses godoc
// @Summary Accepted courses within the calling enseignant's institution scope
// @Tags Visibility
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /enseignant/cours [get]
func (h *VisibilityHandler) TeacherCourses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	enseignant, err := resolveEnseignant(c.Request.Context(), h.enseignants, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	cours, err := h.visibility.TeacherCourses(c.Request.Context(), enseignant.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}
