package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"homecare/internal/database"
	"homecare/internal/model"
	"homecare/internal/repository"
)

// BookingPostgres is a PostgreSQL implementation of repository.BookingRepository.
type BookingPostgres struct {
	db *sql.DB
}

// NewBookingPostgres creates a new BookingPostgres repository.
func NewBookingPostgres(db *sql.DB) *BookingPostgres {
	return &BookingPostgres{db: db}
}

var _ repository.BookingRepository = (*BookingPostgres)(nil)

const bookingColumns = `
	b.id, b.customer_id, b.booking_reference, b.status, b.customer_email, b.customer_phone,
	b.customer_address, b.preferred_date::text, b.preferred_time, b.general_notes,
	b.total_amount_rappen, b.payment_status, b.confirmation_deadline, b.confirmed_at,
	b.cancelled_at, b.cancellation_reason, b.created_at, b.updated_at`

const lineColumns = `
	bs.id, bs.booking_id, bs.position, bs.service_id, bs.provider_id, bs.scheduled_date::text,
	bs.scheduled_time, bs.service_notes, bs.recurring_interval, bs.recurring_interval_days,
	bs.price_rappen, bs.status, bs.created_at,
	s.name, COALESCE(s.short_description, ''), s.icon, s.base_price_rappen, s.price_unit, s.duration_minutes,
	p.first_name, p.last_name, p.company_name, p.email, p.phone, p.verified, p.rating::float8`

const paymentColumns = `
	pm.id, pm.booking_id, pm.amount_rappen, pm.currency, pm.status, pm.payment_method, pm.paid_at, pm.created_at`

// Create stores the booking row and one booking_services row per line in a
// single transaction. The reference comes from generate_booking_reference().
func (r *BookingPostgres) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	addr, err := json.Marshal(b.CustomerAddress)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}

	out := *b
	out.Services = make([]model.BookingService, len(b.Services))
	copy(out.Services, b.Services)

	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT generate_booking_reference()`).Scan(&out.Reference); err != nil {
			return fmt.Errorf("generate reference: %w", err)
		}

		const qBooking = `
			INSERT INTO bookings (
				id, customer_id, booking_reference, status, customer_email, customer_phone,
				customer_address, preferred_date, preferred_time, general_notes,
				total_amount_rappen, payment_status, confirmation_deadline
			) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::date, $9, $10, $11, $12, $13)
			RETURNING created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, qBooking,
			out.ID,
			out.CustomerID,
			out.Reference,
			string(out.Status),
			out.CustomerEmail,
			out.CustomerPhone,
			string(addr),
			out.PreferredDate,
			out.PreferredTime,
			out.GeneralNotes,
			int64(out.TotalAmount),
			string(out.PaymentStatus),
			out.ConfirmationDeadline,
		).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
			return fmt.Errorf("insert booking: %w", mapError(err))
		}

		const qLine = `
			INSERT INTO booking_services (
				booking_id, position, service_id, scheduled_date, scheduled_time, service_notes,
				recurring_interval, recurring_interval_days, price_rappen, status
			) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at
		`
		for i := range out.Services {
			l := &out.Services[i]
			l.BookingID = out.ID
			l.Position = i
			if err := tx.QueryRowContext(ctx, qLine,
				out.ID,
				i,
				l.ServiceID,
				derefNull(l.ScheduledDate),
				derefNull(l.ScheduledTime),
				l.ServiceNotes,
				derefNull(l.RecurringInterval),
				derefNullInt(l.RecurringIntervalDays),
				int64(l.Price),
				string(l.Status),
			).Scan(&l.ID, &l.CreatedAt); err != nil {
				return fmt.Errorf("insert booking service %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Payments == nil {
		out.Payments = []model.Payment{}
	}
	return &out, nil
}

// ListByCustomer returns the customer's bookings newest first with nesting.
func (r *BookingPostgres) ListByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	lines, err := r.lines(ctx, `b.customer_id = $1`, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := r.payments(ctx, `b.customer_id = $1`, customerID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Services = lines[items[i].ID]
		items[i].Payments = payments[items[i].ID]
		fillEmpty(&items[i])
	}
	return items, nil
}

// FindForCustomer returns one owned booking with nesting, or sql.ErrNoRows.
func (r *BookingPostgres) FindForCustomer(ctx context.Context, customerID, id string) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.id = $1 AND b.customer_id = $2`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id, customerID))
	if err != nil {
		return nil, err
	}

	lines, err := r.lines(ctx, `b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	payments, err := r.payments(ctx, `b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	b.Services = lines[id]
	b.Payments = payments[id]
	fillEmpty(b)
	return b, nil
}

// Cancel moves a pending or confirmed booking and its lines to cancelled.
func (r *BookingPostgres) Cancel(ctx context.Context, customerID, id, reason string, at time.Time) (bool, error) {
	const q = `
		WITH cancelled AS (
			UPDATE bookings
			SET status = 'cancelled', cancelled_at = $3, cancellation_reason = $4, updated_at = $3
			WHERE id = $1 AND customer_id = $2 AND status IN ('pending', 'confirmed')
			RETURNING id
		), lines AS (
			UPDATE booking_services bs
			SET status = 'cancelled', updated_at = $3
			FROM cancelled c
			WHERE bs.booking_id = c.id
		)
		SELECT COUNT(*) FROM cancelled
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, id, customerID, at, reason).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExpirePending cancels pending bookings whose confirmation deadline passed before at.
func (r *BookingPostgres) ExpirePending(ctx context.Context, at time.Time, reason string) (int64, error) {
	const q = `
		WITH expired AS (
			UPDATE bookings
			SET status = 'cancelled', cancelled_at = $1, cancellation_reason = $2, updated_at = $1
			WHERE status = 'pending' AND confirmation_deadline < $1
			RETURNING id
		), lines AS (
			UPDATE booking_services bs
			SET status = 'cancelled', updated_at = $1
			FROM expired e
			WHERE bs.booking_id = e.id
		)
		SELECT COUNT(*) FROM expired
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, at, reason).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *BookingPostgres) lines(ctx context.Context, where string, arg any) (map[string][]model.BookingService, error) {
	q := `SELECT ` + lineColumns + `
		FROM booking_services bs
		JOIN bookings b ON b.id = bs.booking_id
		JOIN services s ON s.id = bs.service_id
		LEFT JOIN providers p ON p.id = bs.provider_id
		WHERE ` + where + `
		ORDER BY bs.booking_id, bs.position`
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.BookingService)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out[l.BookingID] = append(out[l.BookingID], *l)
	}
	return out, rows.Err()
}

func (r *BookingPostgres) payments(ctx context.Context, where string, arg any) (map[string][]model.Payment, error) {
	q := `SELECT ` + paymentColumns + `
		FROM payments pm
		JOIN bookings b ON b.id = pm.booking_id
		WHERE ` + where + `
		ORDER BY pm.created_at`
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Payment)
	for rows.Next() {
		var (
			p      model.Payment
			amount int64
			method sql.NullString
			paidAt sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.BookingID, &amount, &p.Currency, &p.Status, &method, &paidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Amount = model.Money(amount)
		p.PaymentMethod = method.String
		p.PaidAt = timePtr(paidAt)
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	return out, rows.Err()
}

func scanBooking(s scanner) (*model.Booking, error) {
	var (
		b                                  model.Booking
		status, payment                    string
		addr                               []byte
		total                              int64
		deadline, confirmedAt, cancelledAt sql.NullTime
	)
	if err := s.Scan(
		&b.ID, &b.CustomerID, &b.Reference, &status, &b.CustomerEmail, &b.CustomerPhone,
		&addr, &b.PreferredDate, &b.PreferredTime, &b.GeneralNotes,
		&total, &payment, &deadline, &confirmedAt,
		&cancelledAt, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &b.CustomerAddress); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	b.Status = model.BookingStatus(status)
	b.PaymentStatus = model.PaymentStatus(payment)
	b.TotalAmount = model.Money(total)
	b.ConfirmationDeadline = timePtr(deadline)
	b.ConfirmedAt = timePtr(confirmedAt)
	b.CancelledAt = timePtr(cancelledAt)
	return &b, nil
}

func scanLine(s scanner) (*model.BookingService, error) {
	var (
		l                                       model.BookingService
		svc                                     model.Service
		providerID, schedDate, schedTime        sql.NullString
		interval                                sql.NullString
		intervalDays                            sql.NullInt64
		price, basePrice                        int64
		status                                  string
		pFirst, pLast, pCompany, pEmail, pPhone sql.NullString
		pVerified                               sql.NullBool
		pRating                                 sql.NullFloat64
	)
	if err := s.Scan(
		&l.ID, &l.BookingID, &l.Position, &l.ServiceID, &providerID, &schedDate,
		&schedTime, &l.ServiceNotes, &interval, &intervalDays,
		&price, &status, &l.CreatedAt,
		&svc.Name, &svc.ShortDescription, &svc.Icon, &basePrice, &svc.PriceUnit, &svc.DurationMinutes,
		&pFirst, &pLast, &pCompany, &pEmail, &pPhone, &pVerified, &pRating,
	); err != nil {
		return nil, err
	}
	l.ProviderID = stringPtr(providerID)
	l.ScheduledDate = stringPtr(schedDate)
	l.ScheduledTime = stringPtr(schedTime)
	l.RecurringInterval = stringPtr(interval)
	l.RecurringIntervalDays = intPtr(intervalDays)
	l.Price = model.Money(price)
	l.Status = model.LineStatus(status)

	svc.ID = l.ServiceID
	svc.BasePrice = model.Money(basePrice)
	l.Service = &svc

	if l.ProviderID != nil {
		l.Provider = &model.Provider{
			ID:          *l.ProviderID,
			FirstName:   pFirst.String,
			LastName:    pLast.String,
			CompanyName: pCompany.String,
			Email:       pEmail.String,
			Phone:       pPhone.String,
			Verified:    pVerified.Bool,
			Rating:      pRating.Float64,
		}
	}
	return &l, nil
}

func fillEmpty(b *model.Booking) {
	if b.Services == nil {
		b.Services = []model.BookingService{}
	}
	if b.Payments == nil {
		b.Payments = []model.Payment{}
	}
}

func derefNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(*s)
}

func derefNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return nullInt(*i)
}
