package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type ReceiptGenerator interface {
	Generate(doc model.JobWithParties) ([]byte, error)
}

type StatementGenerator interface {
	Generate(statement model.Statement) ([]byte, error)
}

type LedgerService struct {
	repo       *repository.LedgerRepository
	receipts   ReceiptGenerator
	statements StatementGenerator
}

type DocumentResult struct {
	FileName string
	Content  []byte
}

func NewLedgerService(repo *repository.LedgerRepository, receipts ReceiptGenerator, statements StatementGenerator) *LedgerService {
	return &LedgerService{
		repo:       repo,
		receipts:   receipts,
		statements: statements,
	}
}

// ListUnpaidJobs returns the principal's unpaid jobs on active contracts,
// whether the principal is the client or the contractor side.
func (s *LedgerService) ListUnpaidJobs(ctx context.Context, principal model.Principal) ([]model.Job, error) {
	jobs, err := s.repo.ListUnpaidJobs(ctx, principal.ProfileID)
	if err != nil {
		return nil, storeError(err)
	}
	return jobs, nil
}

// PayJob pays the job from the principal's balance. A job on a contract that
// belongs to a different client is reported as not found, same as a missing
// job; the existence of other clients' jobs is not disclosed.
func (s *LedgerService) PayJob(ctx context.Context, jobID uuid.UUID, principal model.Principal) (*model.Job, error) {
	if jobID == uuid.Nil {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}

	paid, err := s.repo.PayJob(ctx, jobID, principal.ProfileID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrJobNotFound
		case errors.Is(err, repository.ErrJobAlreadyPaid):
			return nil, ErrAlreadyPaid
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, ErrInsufficientFunds
		default:
			return nil, storeError(err)
		}
	}
	return paid, nil
}

// JobReceipt renders a PDF receipt for a paid job. Only the contract's client
// or contractor may fetch it.
func (s *LedgerService) JobReceipt(ctx context.Context, jobID uuid.UUID, principal model.Principal) (*DocumentResult, error) {
	if jobID == uuid.Nil {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}

	doc, err := s.repo.GetJobWithParties(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, storeError(err)
	}
	if doc.Client.ID != principal.ProfileID && doc.Contractor.ID != principal.ProfileID {
		return nil, ErrForbidden
	}
	if !doc.Job.Paid {
		return nil, fmt.Errorf("%w: job is not paid", ErrInvalidInput)
	}

	content, err := s.receipts.Generate(*doc)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: fmt.Sprintf("receipt-%s.pdf", doc.Job.ID),
		Content:  content,
	}, nil
}

// ExportStatement renders an Excel statement of every job on the principal's
// contracts together with the current balance.
func (s *LedgerService) ExportStatement(ctx context.Context, principal model.Principal) (*DocumentResult, error) {
	profile, err := s.repo.GetProfile(ctx, principal.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, storeError(err)
	}

	jobs, err := s.repo.ListJobsForProfile(ctx, principal.ProfileID)
	if err != nil {
		return nil, storeError(err)
	}

	statement := model.Statement{
		Profile:     *profile,
		Jobs:        jobs,
		GeneratedAt: time.Now().UTC(),
	}

	content, err := s.statements.Generate(statement)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("statement-%s-%s.xlsx",
		sanitizeFileName(profile.FullName()),
		statement.GeneratedAt.Format("20060102"),
	)
	return &DocumentResult{FileName: fileName, Content: content}, nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
