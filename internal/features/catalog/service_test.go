package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shop-bot/internal/common"
)

type fakeDownloader struct {
	data   []byte
	err    error
	fileID string
}

func (f *fakeDownloader) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	f.fileID = fileID
	return f.data, f.err
}

func TestPurgeDeleted_Commits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM products").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)).AddRow(int64(9)))
	mock.ExpectCommit()

	s := NewService(NewRepository(mock), mock, nil)
	n, err := s.PurgeDeleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeDeleted_FailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM products").WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	s := NewService(NewRepository(mock), mock, nil)
	n, err := s.PurgeDeleted(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetImageFromTelegram(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dl := &fakeDownloader{data: []byte{1, 2, 3}}
	mock.ExpectExec("UPDATE products SET image").WithArgs(int64(1), []byte{1, 2, 3}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	s := NewService(NewRepository(mock), mock, dl)
	require.NoError(t, s.SetImageFromTelegram(context.Background(), 1, "AgAD123"))
	assert.Equal(t, "AgAD123", dl.fileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetImageFromTelegram_DownloadError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewService(NewRepository(mock), mock, &fakeDownloader{err: errors.New("404")})
	assert.Error(t, s.SetImageFromTelegram(context.Background(), 1, "missing"))

	s = NewService(NewRepository(mock), mock, nil)
	assert.Error(t, s.SetImageFromTelegram(context.Background(), 1, "any"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVariationFromText(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO variation").WithArgs("XL", 0, 150.0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	s := NewService(NewRepository(mock), mock, nil)
	v, err := s.CreateVariationFromText(context.Background(), "XL-150")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_Validation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewService(NewRepository(mock), mock, nil)

	err = s.CreateProduct(context.Background(), &Product{Name: ""})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	err = s.CreateProduct(context.Background(), &Product{Name: "Кружка", Price: floatPtr(-1)})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Без цены - можно: товар просто не продаётся
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Кружка", "", (*float64)(nil), []byte(nil), (*int64)(nil), (*int64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	p := &Product{Name: "Кружка"}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	assert.Equal(t, int64(5), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM subcategory WHERE category_id").WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category_id"}).
			AddRow(int64(7), "Футболки", int64Ptr(3)).
			AddRow(int64(8), "Худи", int64Ptr(3)))

	s := NewService(NewRepository(mock), mock, nil)
	list, err := s.SubCategories(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Футболки", list[0].Name)
	assert.Equal(t, int64(3), *list[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubCategories_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM subcategory WHERE category_id").WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category_id"}))

	list, err := NewService(NewRepository(mock), mock, nil).SubCategories(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, list)
}
