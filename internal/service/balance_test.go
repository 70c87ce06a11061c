package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adjustBalancePattern     = `UPDATE users SET balance = balance \+ \$2\s+WHERE user_id = \$1 AND balance \+ \$2 >= 0\s+RETURNING balance`
	insertTransactionPattern = `INSERT INTO transactions \(user_id, amount, tx_type, description\)`
)

func newBalanceFixture(t *testing.T) (*BalanceService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewBalanceService(mock, repository.New(mock)), mock
}

func TestBalanceCredit(t *testing.T) {
	svc, mock := newBalanceFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(42), int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(110)))
	mock.ExpectQuery(insertTransactionPattern).
		WithArgs(int64(42), int64(100), string(domain.TxTypeCredit), "Пополнение").
		WillReturnRows(pgxmock.NewRows([]string{"tx_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	balance, err := svc.Credit(context.Background(), 42, 100, "Пополнение")
	require.NoError(t, err)
	assert.Equal(t, int64(110), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceDebitWritesDebitAudit(t *testing.T) {
	svc, mock := newBalanceFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(42), int64(-30)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(70)))
	mock.ExpectQuery(insertTransactionPattern).
		WithArgs(int64(42), int64(-30), string(domain.TxTypeDebit), "Списание").
		WillReturnRows(pgxmock.NewRows([]string{"tx_id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	balance, err := svc.Debit(context.Background(), 42, 30, "Списание")
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceDebitOverdraw(t *testing.T) {
	svc, mock := newBalanceFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(42), int64(-1000)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`)).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Debit(context.Background(), 42, 1000, "Списание")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceAdjustUnknownUser(t *testing.T) {
	svc, mock := newBalanceFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(99), int64(10)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`)).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.Adjust(context.Background(), 99, 10, "Бонус")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRejectsNonPositiveAmounts(t *testing.T) {
	svc, mock := newBalanceFixture(t)

	_, err := svc.Credit(context.Background(), 42, 0, "Пополнение")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Debit(context.Background(), 42, -5, "Списание")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.NoError(t, mock.ExpectationsWereMet())
}
