package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"homecare/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPostgres_ListServices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{
		"id", "category_id", "name", "description", "short_description",
		"icon", "base_price_rappen", "price_unit", "duration_minutes", "popular", "active",
		"created_at", "updated_at",
		"c_id", "c_name", "c_description", "c_icon", "c_color", "c_sort_order", "c_active",
		"c_created_at", "c_updated_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM services s JOIN service_categories c").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("svc-1", "cat-1", "Essential Home Cleaning", "Full clean", "Regular cleaning",
				"sparkles", int64(12900), "per visit", 180, true, true, now, now,
				"cat-1", "Cleaning", "", "sparkles", "blue", 1, true, now, now))

	items, err := NewCatalogPostgres(db).ListServices(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.CHF(129, 0), items[0].BasePrice)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Cleaning", items[0].Category.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_ListCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	cols := []string{"id", "name", "description", "icon", "color", "sort_order", "active", "created_at", "updated_at"}

	t.Run("ordered rows", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM service_categories WHERE active").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("cat-1", "Cleaning", "", "sparkles", "blue", 1, true, now, now).
				AddRow("cat-2", "Moving", "", "truck", "green", 2, true, now, now))

		items, err := repo.ListCategories(context.Background())
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, 2, items[1].SortOrder)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM service_categories").WillReturnError(errors.New("db down"))

		items, err := repo.ListCategories(context.Background())
		assert.Error(t, err)
		assert.Nil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
