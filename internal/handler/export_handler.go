package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// ExportHandler exposes roster and attestation exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RosterCSV godoc
// @Summary Export the trainee roster as CSV
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /exports/roster.csv [post]
func (h *ExportHandler) RosterCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementFormationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a training institution"))
		return
	}
	artifact, err := h.exports.RosterCSV(c.Request.Context(), claims.EtablissementFormationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artifact, nil)
}

// RosterPDF godoc
// @Summary Export the trainee roster as PDF
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /exports/roster.pdf [post]
func (h *ExportHandler) RosterPDF(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EtablissementFormationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not bound to a training institution"))
		return
	}
	artifact, err := h.exports.RosterPDF(c.Request.Context(), claims.EtablissementFormationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artifact, nil)
}

// Attestation godoc
// @Summary Render an enrollment attestation PDF
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /exports/attestations/{id} [post]
func (h *ExportHandler) Attestation(c *gin.Context) {
	artifact, err := h.exports.Attestation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artifact, nil)
}

// DownloadHandler streams stored files from signed tokens. The router mounts
// one instance over the document store and one over the export store.
type DownloadHandler struct {
	documents *service.DocumentService
}

// NewDownloadHandler constructs DownloadHandler.
func NewDownloadHandler(documents *service.DocumentService) *DownloadHandler {
	return &DownloadHandler{documents: documents}
}

// Download godoc
// @Summary Stream a stored file from a signed token
// @Tags Exports
// @Produce application/octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /downloads [get]
func (h *DownloadHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	f, _, err := h.documents.OpenSigned(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	name := filepath.Base(f.Name())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		_ = c.Error(err)
	}
}
