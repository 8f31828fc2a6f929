package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// CoursHandler exposes the course lifecycle endpoints.
type CoursHandler struct {
	cours       *service.CoursService
	documents   *service.DocumentService
	enseignants enseignantDirectory
}

// NewCoursHandler constructs CoursHandler.
func NewCoursHandler(cours *service.CoursService, documents *service.DocumentService, enseignants enseignantDirectory) *CoursHandler {
	return &CoursHandler{cours: cours, documents: documents, enseignants: enseignants}
}

// Create godoc
// @Summary Create a draft course
// @Tags Cours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCoursRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /cours [post]
func (h *CoursHandler) Create(c *gin.Context) {
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
	var req service.CreateCoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cours, err := h.cours.Create(c.Request.Context(), req, enseignant.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cours)
}

// Export godoc
// @Summary Export a course for regional review
// @Tags Cours
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /cours/{id}/export [put]
func (h *CoursHandler) Export(c *gin.Context) {
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
	cours, err := h.cours.Export(c.Request.Context(), c.Param("id"), enseignant.ID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}

// Review godoc
// @Summary Accept or reject a submitted course
// @Tags Cours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body service.ReviewCoursRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /cours/{id}/review [put]
func (h *CoursHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ReviewCoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cours, err := h.cours.Review(c.Request.Context(), c.Param("id"), req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}

// Upload godoc
// @Summary Attach a PDF file to a course
// @Tags Cours
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param file formData file true "PDF file"
// @Success 200 {object} response.Envelope
// @Router /cours/{id}/fichier [put]
func (h *CoursHandler) Upload(c *gin.Context) {
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
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if fileHeader.Size > h.documents.MaxSize() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the allowed size"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	relPath, err := h.documents.Store(c.Request.Context(), fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	cours, err := h.cours.AttachFichier(c.Request.Context(), c.Param("id"), enseignant.ID, relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}

// SignDownload godoc
// @Summary Issue a signed download token for a course file
// @Tags Cours
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /cours/{id}/download [get]
func (h *CoursHandler) SignDownload(c *gin.Context) {
	cours, err := h.cours.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	signed, err := h.documents.SignDownload(cours.ID, cours.FichierPDF)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signed, nil)
}

// PendingForRegion godoc
// @Summary Review queue of the calling regional institution
// @Tags Cours
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /cours/pending [get]
func (h *CoursHandler) PendingForRegion(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementRegionaleID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a regional institution"))
		return
	}
	cours, err := h.cours.ListPendingForRegion(c.Request.Context(), claims.EtablissementRegionaleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cours, nil)
}
