package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'profile_role') THEN
			CREATE TYPE profile_role AS ENUM ('client', 'contractor');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('new', 'in_progress', 'terminated');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		profession VARCHAR(128) NOT NULL DEFAULT '',
		balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		role profile_role NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES profiles(id),
		contractor_id UUID NOT NULL REFERENCES profiles(id),
		terms TEXT NOT NULL DEFAULT '',
		status contract_status NOT NULL DEFAULT 'new',
		CHECK (client_id <> contractor_id)
	);`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(18,2) NOT NULL CHECK (price > 0),
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		payment_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (paid = FALSE OR payment_date IS NOT NULL)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_client_id ON contracts (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_contractor_id ON contracts (contractor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_contract_id ON jobs (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_unpaid ON jobs (contract_id) WHERE paid = FALSE;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
