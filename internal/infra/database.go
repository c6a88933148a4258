package infra

import (
	"fmt"

	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (the sale number sequence, CHECK constraints, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the full schema: AutoMigrate plus SQL patches.
// Integration tests call this directly against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Shop{},
		&model.Staff{},
		&model.InventoryItem{},
		&model.SaleRecord{},
		&model.SaleLine{},
		&model.CreditPayment{},
		&model.SaleIntent{},
		&model.IntentStep{},
		&model.StockMovement{},
		&model.PriceHistory{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle on its
// own. Each statement uses IF NOT EXISTS / existence-check semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Sale numbers come from a dedicated sequence, not a serial column:
		// NextSaleNumber reserves the number before the sale row exists so the
		// intent can carry it. Starts at 1000 to keep receipt numbers 4 digits.
		{"create sales_number_seq",
			`CREATE SEQUENCE IF NOT EXISTS sales_number_seq START 1000`},

		// Belt-and-braces under the conditional decrement: the repository
		// guard should never let available_qty go negative, and this makes the
		// database reject it outright if a future query path slips through.
		{"add items available_qty non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('items') AND conname = 'chk_items_available_qty_nonneg') THEN
    ALTER TABLE items ADD CONSTRAINT chk_items_available_qty_nonneg CHECK (available_qty >= 0);
  END IF;
END $$`},

		{"add sales amount non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint
                 WHERE conrelid = to_regclass('sales') AND conname = 'chk_sales_amounts_nonneg') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_amounts_nonneg CHECK (amount_paid >= 0 AND amount_owed >= 0);
  END IF;
END $$`},

		// Partial index for the overdue cron query: only open credit sales are
		// ever scanned, so index just those.
		{"create partial index for overdue credit scan", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_overdue_credit') THEN
    CREATE INDEX idx_sales_overdue_credit
        ON sales (shop_id, due_date)
        WHERE is_credit AND NOT refunded AND amount_owed > 0;
  END IF;
END $$`},

		// Movement history is always read per item, newest first.
		{"create stock_movements item index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_item_created') THEN
    CREATE INDEX idx_stock_movements_item_created
        ON stock_movements (item_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
