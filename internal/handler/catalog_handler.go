package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/service"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/response"
)

// CatalogHandler exposes the branch / specialty / module taxonomy.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListBranches godoc
// @Summary List branches
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /branches [get]
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	branches, err := h.catalog.ListBranches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branches, nil)
}

// CreateBranche godoc
// @Summary Create a branch
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateBrancheRequest true "Branch payload"
// @Success 201 {object} response.Envelope
// @Router /branches [post]
func (h *CatalogHandler) CreateBranche(c *gin.Context) {
	var req service.CreateBrancheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	branche, err := h.catalog.CreateBranche(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, branche)
}

// UpdateBranche godoc
// @Summary Update a branch while it is unreferenced
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Param payload body service.CreateBrancheRequest true "Branch payload"
// @Success 200 {object} response.Envelope
// @Router /branches/{id} [put]
func (h *CatalogHandler) UpdateBranche(c *gin.Context) {
	var req service.CreateBrancheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	branche, err := h.catalog.UpdateBranche(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branche, nil)
}

// ListSpecialites godoc
// @Summary List specialties
// @Tags Catalog
// @Produce json
// @Param brancheId query string false "Filter by branch"
// @Success 200 {object} response.Envelope
// @Router /specialites [get]
func (h *CatalogHandler) ListSpecialites(c *gin.Context) {
	specialites, err := h.catalog.ListSpecialites(c.Request.Context(), c.Query("brancheId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialites, nil)
}

// CreateSpecialite godoc
// @Summary Create a specialty
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSpecialiteRequest true "Specialty payload"
// @Success 201 {object} response.Envelope
// @Router /specialites [post]
func (h *CatalogHandler) CreateSpecialite(c *gin.Context) {
	var req service.CreateSpecialiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	specialite, err := h.catalog.CreateSpecialite(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, specialite)
}

// ListModules godoc
// @Summary List modules
// @Tags Catalog
// @Produce json
// @Param specialiteId query string false "Filter by specialty"
// @Success 200 {object} response.Envelope
// @Router /modules [get]
func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.catalog.ListModules(c.Request.Context(), c.Query("specialiteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// GetModule godoc
// @Summary Get one module
// @Tags Catalog
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Router /modules/{id} [get]
func (h *CatalogHandler) GetModule(c *gin.Context) {
	module, err := h.catalog.GetModule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// CreateModule godoc
// @Summary Create a module
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /modules [post]
func (h *CatalogHandler) CreateModule(c *gin.Context) {
	var req service.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.catalog.CreateModule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}
