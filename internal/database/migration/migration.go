package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_pgcrypto",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	},
	{
		Name: "create_table_service_categories",
		SQL: `CREATE TABLE IF NOT EXISTS service_categories (
  id          UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  name        TEXT        NOT NULL UNIQUE,
  description TEXT,
  icon        TEXT        NOT NULL DEFAULT '',
  color       TEXT        NOT NULL DEFAULT '',
  sort_order  INTEGER     NOT NULL DEFAULT 0,
  active      BOOLEAN     NOT NULL DEFAULT true,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_services",
		SQL: `CREATE TABLE IF NOT EXISTS services (
  id                UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  category_id       UUID        NOT NULL REFERENCES service_categories (id),
  name              TEXT        NOT NULL UNIQUE,
  description       TEXT,
  short_description TEXT,
  icon              TEXT        NOT NULL DEFAULT '',
  base_price_rappen BIGINT      NOT NULL CHECK (base_price_rappen >= 0),
  price_unit        TEXT        NOT NULL DEFAULT 'visit',
  duration_minutes  INTEGER     NOT NULL DEFAULT 60,
  popular           BOOLEAN     NOT NULL DEFAULT false,
  active            BOOLEAN     NOT NULL DEFAULT true,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  full_name     TEXT        NOT NULL DEFAULT '',
  phone         TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_auth_sessions",
		SQL: `CREATE TABLE IF NOT EXISTS auth_sessions (
  id         UUID        PRIMARY KEY,
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  expires_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_providers",
		SQL: `CREATE TABLE IF NOT EXISTS providers (
  id            UUID         PRIMARY KEY DEFAULT gen_random_uuid(),
  company_name  TEXT,
  first_name    TEXT         NOT NULL,
  last_name     TEXT         NOT NULL,
  email         TEXT         NOT NULL,
  phone         TEXT         NOT NULL DEFAULT '',
  verified      BOOLEAN      NOT NULL DEFAULT false,
  active        BOOLEAN      NOT NULL DEFAULT true,
  rating        NUMERIC(3,2) NOT NULL DEFAULT 0,
  total_reviews INTEGER      NOT NULL DEFAULT 0,
  created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_bookings",
		SQL: `CREATE TABLE IF NOT EXISTS bookings (
  id                    UUID        PRIMARY KEY,
  customer_id           UUID        NOT NULL REFERENCES users (id),
  booking_reference     TEXT        NOT NULL UNIQUE,
  status                TEXT        NOT NULL DEFAULT 'pending',
  customer_email        TEXT        NOT NULL,
  customer_phone        TEXT        NOT NULL,
  customer_address      JSONB       NOT NULL,
  preferred_date        DATE        NOT NULL,
  preferred_time        TEXT        NOT NULL,
  general_notes         TEXT        NOT NULL DEFAULT '',
  total_amount_rappen   BIGINT      NOT NULL CHECK (total_amount_rappen >= 0),
  payment_status        TEXT        NOT NULL DEFAULT 'pending',
  confirmation_deadline TIMESTAMPTZ,
  confirmed_at          TIMESTAMPTZ,
  cancelled_at          TIMESTAMPTZ,
  cancellation_reason   TEXT        NOT NULL DEFAULT '',
  created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_bookings_customer_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bookings_customer_created ON bookings (customer_id, created_at DESC);`,
	},
	{
		Name: "create_index_bookings_pending_deadline",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bookings_pending_deadline ON bookings (confirmation_deadline) WHERE status = 'pending';`,
	},
	{
		Name: "create_table_booking_services",
		SQL: `CREATE TABLE IF NOT EXISTS booking_services (
  id                      UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  booking_id              UUID        NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
  position                INTEGER     NOT NULL,
  service_id              UUID        NOT NULL REFERENCES services (id),
  provider_id             UUID        REFERENCES providers (id),
  scheduled_date          DATE,
  scheduled_time          TEXT,
  service_notes           TEXT        NOT NULL DEFAULT '',
  recurring_interval      TEXT,
  recurring_interval_days INTEGER,
  price_rappen            BIGINT      NOT NULL CHECK (price_rappen >= 0),
  status                  TEXT        NOT NULL DEFAULT 'pending',
  created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (booking_id, position)
);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id             UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  booking_id     UUID        NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
  amount_rappen  BIGINT      NOT NULL,
  currency       TEXT        NOT NULL DEFAULT 'CHF',
  status         TEXT        NOT NULL DEFAULT 'pending',
  payment_method TEXT,
  paid_at        TIMESTAMPTZ,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  id          UUID        PRIMARY KEY,
  booking_id  UUID        NOT NULL UNIQUE REFERENCES bookings (id) ON DELETE CASCADE,
  customer_id UUID        NOT NULL REFERENCES users (id),
  rating      SMALLINT    NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment     TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_booking_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS booking_attachments (
  id           UUID        PRIMARY KEY,
  booking_id   UUID        NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_sequence_booking_reference",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS booking_reference_seq;`,
	},
	{
		Name: "create_function_generate_booking_reference",
		SQL: `CREATE OR REPLACE FUNCTION generate_booking_reference() RETURNS TEXT
LANGUAGE sql AS $$
  SELECT 'HC-' || to_char(now() AT TIME ZONE 'Europe/Zurich', 'YYMMDD') || '-' ||
         lpad(nextval('booking_reference_seq')::text, 5, '0')
$$;`,
	},
	{
		Name: "seed_service_categories",
		SQL: `INSERT INTO service_categories (name, description, icon, color, sort_order) VALUES
  ('Cleaning',   'Regular and end-of-lease cleaning',  '🧹', 'red',    1),
  ('Moving',     'Small moves, deliveries, transport', '📦', 'orange', 2),
  ('Repairs',    'Appliances, electronics, plumbing',  '🔧', 'blue',   3),
  ('Home care',  'Laundry, handyman, full management', '🏠', 'green',  4),
  ('Business',   'Commercial cleaning and upkeep',     '🏢', 'gray',   5)
ON CONFLICT (name) DO NOTHING;`,
	},
	{
		Name: "seed_services",
		SQL: `INSERT INTO services (category_id, name, short_description, icon, base_price_rappen, price_unit, duration_minutes, popular)
SELECT c.id, s.name, s.short_description, s.icon, s.price, s.unit, s.minutes, s.popular
FROM (VALUES
  ('Cleaning',  'Essential Home Cleaning',        'Regular, end-of-lease',       '🧹', 12900, 'visit', 180, true),
  ('Moving',    'Small Moves & Transport',        'Relocations, deliveries',     '📦', 24900, 'job',   240, true),
  ('Repairs',   'Appliance Repair & Maintenance', 'Electronics, plumbing',       '🔧',  9900, 'visit',  90, false),
  ('Home care', 'Premium Home Services',          'Laundry, handyman',           '👔', 14900, 'visit', 120, false),
  ('Home care', 'Complete Home Management',       'Integrated bundle',           '🏠', 39900, 'month',   0, false),
  ('Business',  'Business Facility Services',     'Commercial cleaning, upkeep', '🏢', 34900, 'visit', 240, false)
) AS s(category, name, short_description, icon, price, unit, minutes, popular)
JOIN service_categories c ON c.name = s.category
ON CONFLICT (name) DO NOTHING;`,
	},
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Run applies every step not yet recorded in schema_migrations, in order.
// Each step and its ledger row commit together.
func Run(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"))
	log.Info("db_migration_check", zap.String("status", "starting"))

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err))
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err))
		return err
	}

	ran := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		ran++
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	if ran == 0 {
		log.Info("db_migration_skip", zap.String("status", "success"), zap.String("detail", "schema up to date"))
		return nil
	}
	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int("steps_applied", ran),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
