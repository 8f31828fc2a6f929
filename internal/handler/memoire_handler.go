package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// MemoireHandler exposes the dissertation lifecycle endpoints.
type MemoireHandler struct {
	memoires    *service.MemoireService
	documents   *service.DocumentService
	stagiaires  stagiaireDirectory
	enseignants enseignantDirectory
}

// NewMemoireHandler constructs MemoireHandler.
func NewMemoireHandler(memoires *service.MemoireService, documents *service.DocumentService, stagiaires stagiaireDirectory, enseignants enseignantDirectory) *MemoireHandler {
	return &MemoireHandler{memoires: memoires, documents: documents, stagiaires: stagiaires, enseignants: enseignants}
}

// Create godoc
// @Summary Open a memoire in preparation
// @Tags Memoires
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateMemoireRequest true "Memoire payload"
// @Success 201 {object} response.Envelope
// @Router /memoires [post]
func (h *MemoireHandler) Create(c *gin.Context) {
	var req service.CreateMemoireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	memoire, err := h.memoires.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, memoire)
}

// Submit godoc
// @Summary Submit the memoire to its supervisor
// @Tags Memoires
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memoire ID"
// @Success 200 {object} response.Envelope
// @Router /memoires/{id}/submit [put]
func (h *MemoireHandler) Submit(c *gin.Context) {
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
	memoire, err := h.memoires.Submit(c.Request.Context(), c.Param("id"), stagiaire.ID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoire, nil)
}

// Validate godoc
// @Summary Accept or reject a memoire awaiting review
// @Tags Memoires
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memoire ID"
// @Param payload body service.ValidateMemoireRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /memoires/{id}/validate [put]
func (h *MemoireHandler) Validate(c *gin.Context) {
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
	var req service.ValidateMemoireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	memoire, err := h.memoires.Validate(c.Request.Context(), c.Param("id"), enseignant.ID, req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoire, nil)
}

// MarkDefended godoc
// @Summary Record a completed defense for an accepted memoire
// @Tags Memoires
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memoire ID"
// @Success 200 {object} response.Envelope
// @Router /memoires/{id}/defense [put]
func (h *MemoireHandler) MarkDefended(c *gin.Context) {
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
	memoire, err := h.memoires.MarkDefended(c.Request.Context(), c.Param("id"), enseignant.ID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoire, nil)
}

// UpdateContent godoc
// @Summary Edit memoire content while it is still workable
// @Tags Memoires
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memoire ID"
// @Param payload body service.UpdateMemoireContentRequest true "Content payload"
// @Success 200 {object} response.Envelope
// @Router /memoires/{id} [put]
func (h *MemoireHandler) UpdateContent(c *gin.Context) {
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
	var req service.UpdateMemoireContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	memoire, err := h.memoires.UpdateContent(c.Request.Context(), c.Param("id"), stagiaire.ID, req, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoire, nil)
}

// Upload godoc
// @Summary Attach a PDF file to a memoire
// @Tags Memoires
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memoire ID"
// @Param file formData file true "PDF file"
// @Success 200 {object} response.Envelope
// @Router /memoires/{id}/fichier [put]
func (h *MemoireHandler) Upload(c *gin.Context) {
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
	current, err := h.memoires.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	memoire, err := h.memoires.UpdateContent(c.Request.Context(), c.Param("id"), stagiaire.ID, service.UpdateMemoireContentRequest{
		TitreFr:    current.TitreFr,
		TitreAr:    current.TitreAr,
		FichierPDF: relPath,
	}, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoire, nil)
}

// MyMemoires godoc
// @Summary Memoires of the calling stagiaire
// @Tags Memoires
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /stagiaire/memoires [get]
func (h *MemoireHandler) MyMemoires(c *gin.Context) {
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
	memoires, err := h.memoires.ListByStagiaire(c.Request.Context(), stagiaire.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoires, nil)
}

// Supervised godoc
// @Summary Memoires supervised by the calling enseignant
// @Tags Memoires
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /enseignant/memoires [get]
func (h *MemoireHandler) Supervised(c *gin.Context) {
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
	memoires, err := h.memoires.ListByEnseignant(c.Request.Context(), enseignant.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memoires, nil)
}
