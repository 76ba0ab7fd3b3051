package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/analyzer"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/dmitrijs2005/resumeai/internal/server/pdftext"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/resumeai/internal/server/storage"
	"github.com/google/uuid"
)

// Engine produces feedback for resume text.
type Engine interface {
	Analyze(ctx context.Context, resumeText, roleTarget string) (*models.Feedback, error)
}

// Outcome is a stored analysis plus the user's counters after it.
type Outcome struct {
	Analysis      *models.Analysis
	User          *models.User
	RemainingUses int
}

// Detail strings returned to API callers.
const (
	DetailUserIDRequired = "user_id is required"
	DetailUsageLimit     = "Usage limit reached"
	DetailPDFNoText      = "Could not extract text from PDF"
	DetailOnlyPDF        = "Only PDF files are supported"
)

// extractPDF is a seam for tests.
var extractPDF = pdftext.Extract

// AnalysisService checks quota, runs the engine and stores results. A user
// is charged only for analyses that were stored.
type AnalysisService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	engine      Engine
	archive     storage.Archive
	logger      logging.Logger
	now         func() time.Time
}

func NewAnalysisService(db *sql.DB, m repomanager.RepositoryManager, engine Engine, archive storage.Archive, logger logging.Logger) *AnalysisService {
	if archive == nil {
		archive = storage.NoopArchive{}
	}
	return &AnalysisService{
		db:          db,
		repomanager: m,
		engine:      engine,
		archive:     archive,
		logger:      logger.With("module", "analysis"),
		now:         time.Now,
	}
}

// AnalyzeText analyzes pasted resume text for userID.
func (s *AnalysisService) AnalyzeText(ctx context.Context, userID, text, roleTarget string) (*Outcome, error) {
	user, err := s.admit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, user, models.SourceText, text, roleTarget, nil)
}

// AnalyzePDF extracts text from an uploaded PDF and analyzes it. The
// document is archived once the analysis succeeded.
func (s *AnalysisService) AnalyzePDF(ctx context.Context, userID string, data []byte, roleTarget string) (*Outcome, error) {
	user, err := s.admit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, pdftext.Magic) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedMedia, DetailOnlyPDF)
	}
	text, err := extractPDF(data)
	if err != nil {
		s.logger.Info(ctx, "pdf rejected", "user_id", user.ID, "error", err.Error())
		return nil, &common.ValidationError{Field: "file", Reason: DetailPDFNoText}
	}

	return s.run(ctx, user, models.SourcePDF, text, roleTarget, data)
}

// admit loads the user and refuses exhausted accounts before any work.
func (s *AnalysisService) admit(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &common.ValidationError{Field: "user_id", Reason: DetailUserIDRequired}
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Exhausted() {
		return nil, quotaError(user)
	}
	return user, nil
}

func quotaError(u *models.User) error {
	return &common.QuotaError{Authoritative: true, Used: u.UsageCount, Limit: u.UsageLimit, Detail: DetailUsageLimit}
}

func (s *AnalysisService) run(ctx context.Context, user *models.User, source models.Source, text, roleTarget string, upload []byte) (*Outcome, error) {
	if err := analyzer.CheckResumeContent(text); err != nil {
		return nil, err
	}

	fb, err := s.engine.Analyze(ctx, text, roleTarget)
	if err != nil {
		return nil, err
	}

	a := &models.Analysis{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Source:        source,
		RoleTarget:    strings.TrimSpace(roleTarget),
		ResumeExcerpt: analyzer.Truncate(text, analyzer.ExcerptChars),
		Feedback:      *fb,
	}

	if upload != nil {
		key, err := s.archive.Put(ctx, storage.ArchiveKey(s.now(), user.ID, a.ID), "application/pdf", upload)
		if err != nil {
			s.logger.Warn(ctx, "upload not archived", "analysis_id", a.ID, "error", err.Error())
		}
		a.ArchiveKey = key
	}

	out, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*Outcome, error) {
		updated, err := s.repomanager.Users(tx).IncrementUsage(ctx, user.ID)
		if err != nil {
			if errors.Is(err, common.ErrQuotaExceeded) {
				// Another request took the last slot meanwhile.
				return nil, quotaError(&models.User{UsageCount: user.UsageLimit, UsageLimit: user.UsageLimit})
			}
			return nil, fmt.Errorf("increment usage: %w", err)
		}

		stored, err := s.repomanager.Analyses(tx).Create(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("store analysis: %w", err)
		}

		return &Outcome{Analysis: stored, User: updated, RemainingUses: updated.Remaining()}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "analysis stored", "analysis_id", a.ID, "user_id", user.ID,
		"source", string(source), "score", fb.OverallScore, "remaining_uses", out.RemainingUses)
	return out, nil
}

// GetUser returns the user record, common.ErrNotFound when absent.
func (s *AnalysisService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// ListAnalyses returns the user's analyses, newest first.
func (s *AnalysisService) ListAnalyses(ctx context.Context, userID string) ([]*models.Analysis, error) {
	return s.repomanager.Analyses(s.db).ListByUser(ctx, userID)
}
