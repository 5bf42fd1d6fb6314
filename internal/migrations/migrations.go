package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the back-office backend.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS stock_units (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            product_name TEXT NOT NULL,
            serial_no TEXT UNIQUE,
            imei TEXT UNIQUE,
            storage TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL DEFAULT '',
            warranty TEXT NOT NULL DEFAULT '',
            origin TEXT NOT NULL DEFAULT '',
            cost_price INTEGER NOT NULL DEFAULT 0,
            intake_date TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'READY',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS stock_accessories (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sku TEXT NOT NULL UNIQUE,
            product_name TEXT NOT NULL,
            storage TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL DEFAULT '',
            warranty TEXT NOT NULL DEFAULT '',
            origin TEXT NOT NULL DEFAULT '',
            cost_price INTEGER NOT NULL DEFAULT 0,
            quantity INTEGER NOT NULL DEFAULT 0,
            intake_date TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            invoice_id TEXT NOT NULL,
            sale_date TEXT NOT NULL,
            kind TEXT NOT NULL,
            item_key TEXT NOT NULL,
            product_name TEXT NOT NULL,
            storage TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL DEFAULT '',
            warranty TEXT NOT NULL DEFAULT '',
            cost_price INTEGER NOT NULL DEFAULT 0,
            sell_price INTEGER NOT NULL DEFAULT 0,
            profit INTEGER NOT NULL DEFAULT 0,
            buyer_name TEXT NOT NULL DEFAULT '',
            buyer_address TEXT NOT NULL DEFAULT '',
            buyer_phone TEXT NOT NULL DEFAULT '',
            referral TEXT NOT NULL DEFAULT '',
            sold_by TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);`,
		`CREATE INDEX IF NOT EXISTS idx_sales_item_key ON sales(item_key);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
