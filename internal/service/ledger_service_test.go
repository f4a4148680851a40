package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/excel"
	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/pdf"
	"github.com/nurpe/gigpay/internal/repository"
	"github.com/nurpe/gigpay/internal/service"
	"github.com/nurpe/gigpay/internal/testutil"
)

func newService(db *gorm.DB) *service.LedgerService {
	repo := repository.NewLedgerRepository(db)
	return service.NewLedgerService(repo, pdf.NewGenerator(), excel.NewGenerator())
}

func principal(profile model.Profile) model.Principal {
	return model.Principal{ProfileID: profile.ID, Role: profile.Role}
}

func TestPayJobSuccess(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "100.00")
	contractor := testutil.CreateProfile(t, db, "Linus", model.ProfileRoleContractor, "0.00")
	contract := testutil.CreateContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	job := testutil.CreateJob(t, db, contract.ID, "40.00", false)

	paid, err := svc.PayJob(ctx, job.ID, principal(client))
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.NotNil(t, paid.PaymentDate)

	_, err = svc.PayJob(ctx, job.ID, principal(client))
	require.ErrorIs(t, err, service.ErrAlreadyPaid)
}

func TestPayJobErrorMapping(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "10.00")
	contractor := testutil.CreateProfile(t, db, "Linus", model.ProfileRoleContractor, "0.00")
	contract := testutil.CreateContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	job := testutil.CreateJob(t, db, contract.ID, "40.00", false)

	_, err := svc.PayJob(ctx, uuid.New(), principal(client))
	require.ErrorIs(t, err, service.ErrJobNotFound)

	_, err = svc.PayJob(ctx, uuid.Nil, principal(client))
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.PayJob(ctx, job.ID, principal(client))
	require.ErrorIs(t, err, service.ErrInsufficientFunds)
}

func TestPayJobStoreError(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "100.00")

	require.NoError(t, db.Exec(`DROP TABLE jobs`).Error)

	_, err := svc.PayJob(ctx, uuid.New(), principal(client))
	require.ErrorIs(t, err, service.ErrStore)
}

func TestPayJobRollsBackWhenCreditFails(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "100.00")
	contractor := testutil.CreateProfile(t, db, "Linus", model.ProfileRoleContractor, "0.00")
	contract := testutil.CreateContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	job := testutil.CreateJob(t, db, contract.ID, "40.00", false)

	// make the contractor credit fail after the debit has already run
	require.NoError(t, db.Exec(`DELETE FROM profiles WHERE id = ?`, contractor.ID).Error)

	_, err := svc.PayJob(ctx, job.ID, principal(client))
	require.ErrorIs(t, err, service.ErrStore)

	// the whole transaction must roll back: no debit, job still unpaid
	assert.True(t, testutil.ProfileBalance(t, db, client.ID).Equal(decimal.RequireFromString("100.00")))
	jobs, err := newRepo(db).ListUnpaidJobs(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].Paid)
}

func TestJobReceipt(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "100.00")
	contractor := testutil.CreateProfile(t, db, "Linus", model.ProfileRoleContractor, "0.00")
	stranger := testutil.CreateProfile(t, db, "Draco", model.ProfileRoleClient, "100.00")
	contract := testutil.CreateContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	paidJob := testutil.CreateJob(t, db, contract.ID, "40.00", true)
	unpaidJob := testutil.CreateJob(t, db, contract.ID, "15.00", false)

	result, err := svc.JobReceipt(ctx, paidJob.ID, principal(client))
	require.NoError(t, err)
	assert.Equal(t, "receipt-"+paidJob.ID.String()+".pdf", result.FileName)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))

	// the contractor side may fetch it too
	_, err = svc.JobReceipt(ctx, paidJob.ID, principal(contractor))
	require.NoError(t, err)

	_, err = svc.JobReceipt(ctx, paidJob.ID, principal(stranger))
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.JobReceipt(ctx, unpaidJob.ID, principal(client))
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.JobReceipt(ctx, uuid.New(), principal(client))
	require.ErrorIs(t, err, service.ErrJobNotFound)
}

func TestExportStatement(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	client := testutil.CreateProfile(t, db, "Harry", model.ProfileRoleClient, "60.00")
	contractor := testutil.CreateProfile(t, db, "Linus", model.ProfileRoleContractor, "40.00")
	contract := testutil.CreateContract(t, db, client.ID, contractor.ID, model.ContractStatusInProgress)
	testutil.CreateJob(t, db, contract.ID, "40.00", true)
	testutil.CreateJob(t, db, contract.ID, "25.00", false)

	result, err := svc.ExportStatement(ctx, principal(client))
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	assert.Contains(t, result.FileName, "statement-")

	workbook, err := excelize.OpenReader(bytes.NewReader(result.Content))
	require.NoError(t, err)
	defer workbook.Close()

	name, err := workbook.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, client.FullName(), name)

	paidTotal, err := workbook.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "40.00", paidTotal)

	unpaidTotal, err := workbook.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "25.00", unpaidTotal)

	rows, err := workbook.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two jobs

	_, err = svc.ExportStatement(ctx, model.Principal{ProfileID: uuid.New(), Role: model.ProfileRoleClient})
	require.ErrorIs(t, err, service.ErrForbidden)
}

func newRepo(db *gorm.DB) *repository.LedgerRepository {
	return repository.NewLedgerRepository(db)
}
