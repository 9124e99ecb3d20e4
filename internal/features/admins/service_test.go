package admins

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shop-bot/internal/common"
)

var adminCols = []string{
	"user_id", "edit_products", "receive_orders", "create_transactions",
	"display_on_help", "is_owner", "live_mode",
}

func TestIsAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM admins WHERE user_id").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(adminCols).AddRow(int64(1), true, true, false, false, false, false))
	mock.ExpectQuery("FROM admins WHERE user_id").WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(adminCols))
	mock.ExpectQuery("FROM admins WHERE user_id").WithArgs(int64(3)).
		WillReturnError(errors.New("conn reset"))

	s := NewService(NewRepository(mock))

	ok, err := s.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.IsAdmin(context.Background(), 3)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRecipients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("WHERE receive_orders = TRUE").
		WillReturnRows(pgxmock.NewRows(adminCols).
			AddRow(int64(11), false, true, false, false, false, true).
			AddRow(int64(12), true, true, true, true, true, false))

	ids, err := NewService(NewRepository(mock)).OrderRecipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO admins").
		WithArgs(int64(7), true, true, true, true, true, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewService(NewRepository(mock)).Save(context.Background(), Owner(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLiveMode_NotAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE admins SET live_mode").WithArgs(int64(5), true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewService(NewRepository(mock)).ToggleLiveMode(context.Background(), 5, true)
	assert.ErrorIs(t, err, common.ErrAdminNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
