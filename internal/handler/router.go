package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/idrissziadi/formation-api/internal/middleware"
	"github.com/idrissziadi/formation-api/internal/models"
	"github.com/idrissziadi/formation-api/internal/service"
)

// Handlers groups the HTTP surface for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Offres       *OffreHandler
	Inscriptions *InscriptionHandler
	Visibility   *VisibilityHandler
	Cours        *CoursHandler
	Memoires     *MemoireHandler
	Programmes   *ProgrammeHandler
	Exports      *ExportHandler
	Documents    *DownloadHandler
	ExportFiles  *DownloadHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	// Catalog reads are open to any authenticated caller; writes belong to
	// the national institution.
	protected.GET("/branches", h.Catalog.ListBranches)
	protected.GET("/specialites", h.Catalog.ListSpecialites)
	protected.GET("/modules", h.Catalog.ListModules)
	protected.GET("/modules/:id", h.Catalog.GetModule)

	national := protected.Group("")
	national.Use(middleware.RequireRoles(models.RoleEtablissementNationale))
	national.POST("/branches", h.Catalog.CreateBranche)
	national.PUT("/branches/:id", h.Catalog.UpdateBranche)
	national.POST("/specialites", h.Catalog.CreateSpecialite)
	national.POST("/modules", h.Catalog.CreateModule)
	national.PUT("/programmes/:id/validate", h.Programmes.Validate)
	national.PUT("/programmes/:id/reject", h.Programmes.Reject)
	national.GET("/metrics/snapshot", h.Metrics.Snapshot)

	protected.GET("/offres", h.Offres.List)
	protected.GET("/offres/:id", h.Offres.Get)
	protected.GET("/offres/:id/modules", h.Offres.ListModules)

	formation := protected.Group("")
	formation.Use(middleware.RequireRoles(models.RoleEtablissementFormation))
	formation.POST("/offres", h.Offres.Create)
	formation.PUT("/offres/:id/modules/:moduleId", h.Offres.AttachModule)
	formation.DELETE("/offres/:id/modules/:moduleId", h.Offres.DetachModule)
	formation.GET("/inscriptions", h.Inscriptions.List)
	formation.PUT("/inscriptions/:id/decision", h.Inscriptions.Decide)
	formation.POST("/exports/roster.csv", h.Exports.RosterCSV)
	formation.POST("/exports/roster.pdf", h.Exports.RosterPDF)
	formation.POST("/exports/attestations/:id", h.Exports.Attestation)

	stagiaire := protected.Group("")
	stagiaire.Use(middleware.RequireRoles(models.RoleStagiaire))
	stagiaire.POST("/inscriptions", h.Inscriptions.Register)
	stagiaire.PUT("/inscriptions/:id/cancel", h.Inscriptions.Cancel)
	stagiaire.GET("/stagiaire/modules", h.Visibility.MyModules)
	stagiaire.GET("/stagiaire/cours", h.Visibility.MyCourses)
	stagiaire.GET("/stagiaire/programmes", h.Visibility.MyProgrammes)
	stagiaire.GET("/stagiaire/memoires", h.Memoires.MyMemoires)
	stagiaire.PUT("/memoires/:id/submit", h.Memoires.Submit)
	stagiaire.PUT("/memoires/:id", h.Memoires.UpdateContent)
	stagiaire.PUT("/memoires/:id/fichier", h.Memoires.Upload)

	protected.GET("/inscriptions/:id", h.Inscriptions.Get)
	protected.POST("/memoires", h.Memoires.Create)

	enseignant := protected.Group("")
	enseignant.Use(middleware.RequireRoles(models.RoleEnseignant))
	enseignant.GET("/enseignant/modules", h.Visibility.TeacherModules)
	enseignant.GET("/enseignant/cours", h.Visibility.TeacherCourses)
	enseignant.GET("/enseignant/memoires", h.Memoires.Supervised)
	enseignant.POST("/cours", h.Cours.Create)
	enseignant.PUT("/cours/:id/export", h.Cours.Export)
	enseignant.PUT("/cours/:id/fichier", h.Cours.Upload)
	enseignant.PUT("/memoires/:id/validate", h.Memoires.Validate)
	enseignant.PUT("/memoires/:id/defense", h.Memoires.MarkDefended)

	regionale := protected.Group("")
	regionale.Use(middleware.RequireRoles(models.RoleEtablissementRegionale))
	regionale.GET("/cours/pending", h.Cours.PendingForRegion)
	regionale.PUT("/cours/:id/review", h.Cours.Review)
	regionale.POST("/programmes", h.Programmes.Create)
	regionale.PUT("/programmes/:id", h.Programmes.Update)

	protected.GET("/programmes", h.Programmes.List)
	protected.GET("/programmes/:id", h.Programmes.Get)
	protected.GET("/cours/:id/download", h.Cours.SignDownload)

	api.GET("/documents/download", h.Documents.Download)
	api.GET("/exports/download", h.ExportFiles.Download)
}
