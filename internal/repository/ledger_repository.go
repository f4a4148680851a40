package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ListUnpaidJobs returns unpaid jobs on non-terminated contracts where the
// profile is either side of the contract. Read-only, no transaction needed.
func (r *LedgerRepository) ListUnpaidJobs(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.contract_id,
			j.description,
			j.price,
			j.paid,
			j.payment_date,
			j.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = FALSE
			AND c.status <> 'terminated'
			AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.id ASC
	`, profileID, profileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

// PayJob moves the job price from the client balance to the contractor balance
// and marks the job paid, all inside one transaction. Preconditions are
// enforced with guarded updates so they hold under concurrent payments, not
// just at read time:
//   - marking the job paid requires paid = FALSE (loser of a same-job race
//     gets ErrJobAlreadyPaid);
//   - debiting the client requires balance >= price (concurrent debits of the
//     same client serialize on the profile row).
func (r *LedgerRepository) PayJob(ctx context.Context, jobID, payerID uuid.UUID, paidAt time.Time) (*model.Job, error) {
	var paid model.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct {
			ID           uuid.UUID
			ContractID   uuid.UUID
			Description  string
			Price        decimal.Decimal
			Paid         bool
			CreatedAt    time.Time
			ContractorID uuid.UUID
		}
		err := tx.Raw(`
			SELECT
				j.id,
				j.contract_id,
				j.description,
				j.price,
				j.paid,
				j.created_at,
				c.contractor_id
			FROM jobs j
			JOIN contracts c ON c.id = j.contract_id
			WHERE j.id = ? AND c.client_id = ?
			LIMIT 1
		`, jobID, payerID).Scan(&row).Error
		if err != nil {
			return err
		}
		if row.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}
		if row.Paid {
			return ErrJobAlreadyPaid
		}

		res := tx.Exec(`
			UPDATE jobs
			SET paid = TRUE, payment_date = ?
			WHERE id = ? AND paid = FALSE
		`, paidAt, jobID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// another transaction paid the job between our read and write
			return ErrJobAlreadyPaid
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = balance - ?
			WHERE id = ? AND balance >= ?
		`, row.Price, payerID, row.Price)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = balance + ?
			WHERE id = ?
		`, row.Price, row.ContractorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("contractor profile %s not found", row.ContractorID)
		}

		paymentDate := paidAt
		paid = model.Job{
			ID:          row.ID,
			ContractID:  row.ContractID,
			Description: row.Description,
			Price:       row.Price,
			Paid:        true,
			PaymentDate: &paymentDate,
			CreatedAt:   row.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &paid, nil
}

func (r *LedgerRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, profession, balance, role
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&profile).Error; err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

// GetJobWithParties returns a job together with the client and contractor
// profiles of its contract.
func (r *LedgerRepository) GetJobWithParties(ctx context.Context, jobID uuid.UUID) (*model.JobWithParties, error) {
	var row struct {
		ID                   uuid.UUID
		ContractID           uuid.UUID
		Description          string
		Price                decimal.Decimal
		Paid                 bool
		PaymentDate          *time.Time
		CreatedAt            time.Time
		ClientID             uuid.UUID
		ClientFirstName      string
		ClientLastName       string
		ClientProfession     string
		ClientBalance        decimal.Decimal
		ContractorID         uuid.UUID
		ContractorFirstName  string
		ContractorLastName   string
		ContractorProfession string
		ContractorBalance    decimal.Decimal
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.contract_id,
			j.description,
			j.price,
			j.paid,
			j.payment_date,
			j.created_at,
			client.id AS client_id,
			client.first_name AS client_first_name,
			client.last_name AS client_last_name,
			client.profession AS client_profession,
			client.balance AS client_balance,
			contractor.id AS contractor_id,
			contractor.first_name AS contractor_first_name,
			contractor.last_name AS contractor_last_name,
			contractor.profession AS contractor_profession,
			contractor.balance AS contractor_balance
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles client ON client.id = c.client_id
		JOIN profiles contractor ON contractor.id = c.contractor_id
		WHERE j.id = ?
		LIMIT 1
	`, jobID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.JobWithParties{
		Job: model.Job{
			ID:          row.ID,
			ContractID:  row.ContractID,
			Description: row.Description,
			Price:       row.Price,
			Paid:        row.Paid,
			PaymentDate: row.PaymentDate,
			CreatedAt:   row.CreatedAt,
		},
		Client: model.Profile{
			ID:         row.ClientID,
			FirstName:  row.ClientFirstName,
			LastName:   row.ClientLastName,
			Profession: row.ClientProfession,
			Balance:    row.ClientBalance,
			Role:       model.ProfileRoleClient,
		},
		Contractor: model.Profile{
			ID:         row.ContractorID,
			FirstName:  row.ContractorFirstName,
			LastName:   row.ContractorLastName,
			Profession: row.ContractorProfession,
			Balance:    row.ContractorBalance,
			Role:       model.ProfileRoleContractor,
		},
	}, nil
}

// ListJobsForProfile returns every job on the profile's contracts regardless
// of contract status or paid state, newest first. Used for statements.
func (r *LedgerRepository) ListJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.JobWithParties, error) {
	var rows []struct {
		ID                   uuid.UUID
		ContractID           uuid.UUID
		Description          string
		Price                decimal.Decimal
		Paid                 bool
		PaymentDate          *time.Time
		CreatedAt            time.Time
		ClientID             uuid.UUID
		ClientFirstName      string
		ClientLastName       string
		ClientProfession     string
		ContractorID         uuid.UUID
		ContractorFirstName  string
		ContractorLastName   string
		ContractorProfession string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.contract_id,
			j.description,
			j.price,
			j.paid,
			j.payment_date,
			j.created_at,
			client.id AS client_id,
			client.first_name AS client_first_name,
			client.last_name AS client_last_name,
			client.profession AS client_profession,
			contractor.id AS contractor_id,
			contractor.first_name AS contractor_first_name,
			contractor.last_name AS contractor_last_name,
			contractor.profession AS contractor_profession
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles client ON client.id = c.client_id
		JOIN profiles contractor ON contractor.id = c.contractor_id
		WHERE c.client_id = ? OR c.contractor_id = ?
		ORDER BY j.created_at DESC, j.id ASC
	`, profileID, profileID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]model.JobWithParties, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.JobWithParties{
			Job: model.Job{
				ID:          row.ID,
				ContractID:  row.ContractID,
				Description: row.Description,
				Price:       row.Price,
				Paid:        row.Paid,
				PaymentDate: row.PaymentDate,
				CreatedAt:   row.CreatedAt,
			},
			Client: model.Profile{
				ID:         row.ClientID,
				FirstName:  row.ClientFirstName,
				LastName:   row.ClientLastName,
				Profession: row.ClientProfession,
				Role:       model.ProfileRoleClient,
			},
			Contractor: model.Profile{
				ID:         row.ContractorID,
				FirstName:  row.ContractorFirstName,
				LastName:   row.ContractorLastName,
				Profession: row.ContractorProfession,
				Role:       model.ProfileRoleContractor,
			},
		})
	}
	return result, nil
}
