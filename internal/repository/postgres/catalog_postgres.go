package postgres

import (
	"context"
	"database/sql"

	"homecare/internal/model"
	"homecare/internal/repository"
)

// CatalogPostgres is a PostgreSQL implementation of repository.CatalogRepository.
type CatalogPostgres struct {
	db *sql.DB
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db *sql.DB) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

// ListServices returns active services of active categories, popular first.
func (r *CatalogPostgres) ListServices(ctx context.Context) ([]model.Service, error) {
	const q = `
		SELECT s.id, s.category_id, s.name, COALESCE(s.description, ''), COALESCE(s.short_description, ''),
		       s.icon, s.base_price_rappen, s.price_unit, s.duration_minutes, s.popular, s.active,
		       s.created_at, s.updated_at,
		       c.id, c.name, COALESCE(c.description, ''), c.icon, c.color, c.sort_order, c.active,
		       c.created_at, c.updated_at
		FROM services s
		JOIN service_categories c ON c.id = s.category_id
		WHERE s.active AND c.active
		ORDER BY s.popular DESC, c.sort_order ASC, s.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Service, 0)
	for rows.Next() {
		var (
			s     model.Service
			c     model.ServiceCategory
			price int64
		)
		if err := rows.Scan(
			&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.ShortDescription,
			&s.Icon, &price, &s.PriceUnit, &s.DurationMinutes, &s.Popular, &s.Active,
			&s.CreatedAt, &s.UpdatedAt,
			&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.SortOrder, &c.Active,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		s.BasePrice = model.Money(price)
		s.Category = &c
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCategories returns active categories ordered by sort order.
func (r *CatalogPostgres) ListCategories(ctx context.Context) ([]model.ServiceCategory, error) {
	const q = `
		SELECT id, name, COALESCE(description, ''), icon, color, sort_order, active, created_at, updated_at
		FROM service_categories
		WHERE active
		ORDER BY sort_order ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ServiceCategory, 0)
	for rows.Next() {
		var c model.ServiceCategory
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.SortOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
