package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectUserPattern       = `FROM users WHERE user_id = \$1`
	selectByRefCodePattern  = `FROM users WHERE referral_code = \$1`
	insertUserPattern       = `INSERT INTO users \(user_id, username, first_name, last_name, referral_code, referred_by\)`
	setUserBannedPattern    = `UPDATE users SET is_banned = \$2 WHERE user_id = \$1`
	selectUserStatsPattern  = `FROM users u WHERE u\.user_id = \$1`
)

var userColumns = []string{
	"user_id", "username", "first_name", "last_name", "balance",
	"referral_code", "referred_by", "is_banned", "created_at",
}

func newUserFixture(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	queries := repository.New(mock)
	referrals := NewReferralService(mock, queries, 10)
	return NewUserService(mock, queries, referrals), mock
}

func userRow(id int64, code string) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).
		AddRow(id, "alice", "Alice", "", int64(0), code, nil, false, time.Now())
}

func TestUserFindOrCreateExisting(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "CODE1234"))

	user, isNew, err := svc.FindOrCreate(context.Background(), 42, "alice", "Alice", "", "")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, int64(42), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindOrCreateNew(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	// Uniqueness probe for the freshly generated referral code.
	mock.ExpectQuery(selectByRefCodePattern).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(insertUserPattern).
		WithArgs(int64(42), "alice", "Alice", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(userRow(42, "CODE1234"))

	user, isNew, err := svc.FindOrCreate(context.Background(), 42, "alice", "Alice", "", "")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "CODE1234", user.ReferralCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindOrCreateViaReferralLink(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(selectByRefCodePattern).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	// Deep link payload resolves to the referrer.
	mock.ExpectQuery(selectByRefCodePattern).
		WithArgs("REF12345").
		WillReturnRows(userRow(7, "REF12345"))
	mock.ExpectQuery(insertUserPattern).
		WithArgs(int64(42), "alice", "Alice", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(userRow(42, "CODE1234"))

	// The referral edge and its bonus commit together.
	mock.ExpectBegin()
	mock.ExpectExec(insertReferralPattern).
		WithArgs(int64(7), int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(adjustBalancePattern).
		WithArgs(int64(7), int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(10)))
	mock.ExpectQuery(insertTransactionPattern).
		WithArgs(int64(7), int64(10), string(domain.TxTypeCredit), "Реферальный бонус за пользователя 42").
		WillReturnRows(pgxmock.NewRows([]string{"tx_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	_, isNew, err := svc.FindOrCreate(context.Background(), 42, "alice", "Alice", "", "REF12345")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindOrCreateLosesInsertRace(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(selectByRefCodePattern).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(insertUserPattern).
		WithArgs(int64(42), "alice", "Alice", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "OTHER999"))

	user, isNew, err := svc.FindOrCreate(context.Background(), 42, "alice", "Alice", "", "")
	require.NoError(t, err)
	assert.False(t, isNew, "the racing insert owns the registration")
	assert.Equal(t, "OTHER999", user.ReferralCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserPattern).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetBannedUnknownUser(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectExec(setUserBannedPattern).
		WithArgs(int64(99), true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.SetBanned(context.Background(), 99, true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStats(t *testing.T) {
	svc, mock := newUserFixture(t)

	mock.ExpectQuery(selectUserStatsPattern).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"balance", "completed", "created", "referrals"}).
			AddRow(int64(120), int64(4), int64(2), int64(3)))

	stats, err := svc.Stats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.Balance)
	assert.Equal(t, int64(4), stats.CompletedTasks)
	assert.Equal(t, int64(2), stats.CreatedTasks)
	assert.Equal(t, int64(3), stats.Referrals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateReferralCode(t *testing.T) {
	code, err := generateReferralCode()
	require.NoError(t, err)
	assert.Len(t, code, referralCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(referralCodeCharset, r), "unexpected rune %q", r)
	}

	other, err := generateReferralCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
