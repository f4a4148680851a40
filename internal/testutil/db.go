// Package testutil provides an in-memory database and seed helpers shared by
// package tests. Production code must not import it.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/gigpay/internal/model"
)

// schema mirrors the Postgres migrations with SQLite-friendly types. NUMERIC
// keeps numeric affinity so balance arithmetic and comparisons stay numeric.
var schema = []string{
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		profession TEXT NOT NULL DEFAULT '',
		balance NUMERIC(18,2) NOT NULL DEFAULT 0,
		role TEXT NOT NULL
	);`,
	`CREATE TABLE contracts (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES profiles(id),
		contractor_id TEXT NOT NULL REFERENCES profiles(id),
		terms TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new'
	);`,
	`CREATE TABLE jobs (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(18,2) NOT NULL,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		payment_date DATETIME,
		created_at DATETIME NOT NULL
	);`,
}

// NewDB opens an in-memory SQLite database with the ledger schema. The pool is
// limited to one connection so concurrent transactions serialize instead of
// failing with SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, database.Exec(stmt).Error)
	}
	return database
}

func CreateProfile(t *testing.T, db *gorm.DB, name string, role model.ProfileRole, balance string) model.Profile {
	t.Helper()

	profile := model.Profile{
		ID:         uuid.New(),
		FirstName:  name,
		LastName:   "Test",
		Profession: "Engineer",
		Balance:    mustDecimal(t, balance),
		Role:       role,
	}
	require.NoError(t, db.Exec(`
		INSERT INTO profiles (id, first_name, last_name, profession, balance, role)
		VALUES (?, ?, ?, ?, ?, ?)
	`, profile.ID, profile.FirstName, profile.LastName, profile.Profession, profile.Balance, string(profile.Role)).Error)
	return profile
}

func CreateContract(t *testing.T, db *gorm.DB, clientID, contractorID uuid.UUID, status model.ContractStatus) model.Contract {
	t.Helper()

	contract := model.Contract{
		ID:           uuid.New(),
		ClientID:     clientID,
		ContractorID: contractorID,
		Terms:        "standard terms",
		Status:       status,
	}
	require.NoError(t, db.Exec(`
		INSERT INTO contracts (id, client_id, contractor_id, terms, status)
		VALUES (?, ?, ?, ?, ?)
	`, contract.ID, contract.ClientID, contract.ContractorID, contract.Terms, string(contract.Status)).Error)
	return contract
}

func CreateJob(t *testing.T, db *gorm.DB, contractID uuid.UUID, price string, paid bool) model.Job {
	t.Helper()

	job := model.Job{
		ID:          uuid.New(),
		ContractID:  contractID,
		Description: "work on the thing",
		Price:       mustDecimal(t, price),
		Paid:        paid,
		CreatedAt:   time.Now().UTC(),
	}
	var paymentDate *time.Time
	if paid {
		now := time.Now().UTC()
		paymentDate = &now
		job.PaymentDate = paymentDate
	}
	require.NoError(t, db.Exec(`
		INSERT INTO jobs (id, contract_id, description, price, paid, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.ContractID, job.Description, job.Price, job.Paid, paymentDate, job.CreatedAt).Error)
	return job
}

// ProfileBalance reads the current balance straight from the table.
func ProfileBalance(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()

	var row struct {
		Balance decimal.Decimal
	}
	require.NoError(t, db.Raw(`SELECT balance FROM profiles WHERE id = ?`, id).Scan(&row).Error)
	return row.Balance
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	parsed, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return parsed
}
