package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/export"
)

type rosterStagiaireReader interface {
	ListByEtablissement(ctx context.Context, etablissementID string) ([]models.Stagiaire, error)
}

type exportInscriptionReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.InscriptionDetail, error)
}

type etablissementReader interface {
	FindFormationByID(ctx context.Context, id string) (*models.EtablissementFormation, error)
}

type exportStore interface {
	Save(filename string, data []byte) (string, error)
}

// ExportArtifact is a rendered export stored on disk with a signed download
// token.
type ExportArtifact struct {
	Filename  string    `json:"filename"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Size      int       `json:"size"`
}

// ExportService renders trainee rosters as CSV or PDF and enrollment
// attestations as PDF, stores the artifacts and issues signed download
// tokens for them.
type ExportService struct {
	stagiaires     rosterStagiaireReader
	inscriptions   exportInscriptionReader
	etablissements etablissementReader
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	store          exportStore
	signer         documentSigner
	logger         *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(
	stagiaires rosterStagiaireReader,
	inscriptions exportInscriptionReader,
	etablissements etablissementReader,
	store exportStore,
	signer documentSigner,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		stagiaires:     stagiaires,
		inscriptions:   inscriptions,
		etablissements: etablissements,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		store:          store,
		signer:         signer,
		logger:         logger,
	}
}

// RosterCSV renders the trainee roster of a training institution as CSV.
func (s *ExportService) RosterCSV(ctx context.Context, etablissementID string) (*ExportArtifact, error) {
	dataset, err := s.rosterDataset(ctx, etablissementID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return s.persist(fmt.Sprintf("roster_%s_%s.csv", etablissementID, uuid.NewString()), data)
}

// RosterPDF renders the trainee roster of a training institution as PDF.
func (s *ExportService) RosterPDF(ctx context.Context, etablissementID string) (*ExportArtifact, error) {
	etab, err := s.etablissements.FindFormationByID(ctx, etablissementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "etablissement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load etablissement")
	}
	dataset, err := s.rosterDataset(ctx, etablissementID)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(*dataset, fmt.Sprintf("Liste des stagiaires - %s", etab.NameFr))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
	}
	return s.persist(fmt.Sprintf("roster_%s_%s.pdf", etablissementID, uuid.NewString()), data)
}

// Attestation renders an enrollment attestation PDF for one accepted
// enrollment.
func (s *ExportService) Attestation(ctx context.Context, inscriptionID string) (*ExportArtifact, error) {
	detail, err := s.inscriptions.FindDetailByID(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if detail.Statut != models.InscriptionAcceptee {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "attestation requires an accepted enrollment")
	}
	att := export.Attestation{
		StagiaireName:    fmt.Sprintf("%s %s", detail.StagiaireNomFr, detail.StagiairePrenomFr),
		OfferDesignation: detail.OffreDesignation,
		Specialite:       detail.SpecialiteNameFr,
		Statut:           string(detail.Statut),
		EnrolledAt:       detail.CreatedAt.Format("2006-01-02"),
	}
	data, err := s.pdf.RenderAttestation(att)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attestation")
	}
	return s.persist(fmt.Sprintf("attestation_%s.pdf", inscriptionID), data)
}

func (s *ExportService) rosterDataset(ctx context.Context, etablissementID string) (*export.Dataset, error) {
	stagiaires, err := s.stagiaires.ListByEtablissement(ctx, etablissementID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stagiaires")
	}
	dataset := &export.Dataset{
		Headers: []string{"ID", "Nom", "Prenom"},
		Rows:    make([]map[string]string, 0, len(stagiaires)),
	}
	for _, st := range stagiaires {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":     st.ID,
			"Nom":    st.NomFr,
			"Prenom": st.PrenomFr,
		})
	}
	return dataset, nil
}

func (s *ExportService) persist(filename string, data []byte) (*ExportArtifact, error) {
	relPath, err := s.store.Save(filename, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(filename, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export download")
	}
	s.logger.Info("export rendered", zap.String("file", relPath), zap.Int("bytes", len(data)))
	return &ExportArtifact{Filename: relPath, Token: token, ExpiresAt: expiresAt, Size: len(data)}, nil
}
