package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
	"github.com/idrissziadi/formation-api/pkg/storage"
)

type documentStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type documentSigner interface {
	Generate(docID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (docID, relPath string, expiresAt time.Time, err error)
}

// SignedDocument is a download token bound to one stored file.
type SignedDocument struct {
	DocID     string    `json:"doc_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DocumentService stores uploaded PDF documents on the local filesystem and
// issues HMAC-signed download tokens for them. Only PDF payloads are
// accepted; size enforcement happens at the HTTP layer.
type DocumentService struct {
	store   documentStore
	signer  documentSigner
	maxSize int64
	logger  *zap.Logger
}

// NewDocumentService constructs DocumentService.
func NewDocumentService(store documentStore, signer documentSigner, maxSize int64, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{store: store, signer: signer, maxSize: maxSize, logger: logger}
}

// MaxSize returns the configured upload limit in bytes.
func (s *DocumentService) MaxSize() int64 {
	return s.maxSize
}

// Store persists an uploaded PDF under a generated name and returns the
// stored relative path.
func (s *DocumentService) Store(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(originalName), ".pdf") {
		return "", appErrors.Clone(appErrors.ErrValidation, "only PDF documents are accepted")
	}
	name := fmt.Sprintf("%s.pdf", uuid.NewString())
	relPath, err := s.store.SaveStream(name, r)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	s.logger.Info("document stored", zap.String("path", relPath), zap.String("original", originalName))
	return relPath, nil
}

// SignDownload issues a signed download token for a stored document.
func (s *DocumentService) SignDownload(docID, relPath string) (*SignedDocument, error) {
	if relPath == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document has no stored file")
	}
	token, expiresAt, err := s.signer.Generate(docID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}
	return &SignedDocument{DocID: docID, Token: token, ExpiresAt: expiresAt}, nil
}

// OpenSigned verifies a download token and opens the underlying file. The
// caller owns the returned handle.
func (s *DocumentService) OpenSigned(token string) (*os.File, string, error) {
	docID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	f, err := s.store.Open(relPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "document file not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return f, docID, nil
}

// Remove deletes a stored document, tolerating already-missing files.
func (s *DocumentService) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	if err := s.store.Delete(relPath); err != nil && !os.IsNotExist(err) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}
	return nil
}

var _ documentStore = (*storage.LocalStorage)(nil)
var _ documentSigner = (*storage.SignedURLSigner)(nil)
