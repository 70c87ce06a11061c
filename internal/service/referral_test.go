package service

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertReferralPattern = `INSERT INTO referrals \(referrer_id, referred_id, bonus_paid\)`

func newReferralFixture(t *testing.T) (*ReferralService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewReferralService(mock, repository.New(mock), 10), mock
}

func TestReferralRecordPaysBonusOnce(t *testing.T) {
	svc, mock := newReferralFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertReferralPattern).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(10)))
	mock.ExpectQuery(insertTransactionPattern).
		WithArgs(int64(1), int64(10), string(domain.TxTypeCredit), "Реферальный бонус за пользователя 2").
		WillReturnRows(pgxmock.NewRows([]string{"tx_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	recorded, err := svc.Record(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, recorded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRecordDuplicatePairIsNoOp(t *testing.T) {
	svc, mock := newReferralFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertReferralPattern).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectRollback()

	recorded, err := svc.Record(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, recorded, "duplicate pair must not pay a second bonus")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRecordRejectsSelfReferral(t *testing.T) {
	svc, mock := newReferralFixture(t)

	_, err := svc.Record(context.Background(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrSelfReferral)
	assert.NoError(t, mock.ExpectationsWereMet())
}
