package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"tokoponsel/m/domain"
)

// Inventory gives access to both stock tables: serialized units keyed by
// serial number / IMEI, and fungible accessories keyed by SKU.
type Inventory struct {
	db *sqlx.DB
}

// NewInventory constructs an Inventory over the given database.
func NewInventory(db *sqlx.DB) *Inventory {
	return &Inventory{db: db}
}

// UnitSnapshot is what the sale coordinator needs from a unit row.
type UnitSnapshot struct {
	CostPrice   int64  `db:"cost_price"`
	Status      string `db:"status"`
	ProductName string `db:"product_name"`
	Storage     string `db:"storage"`
	Color       string `db:"color"`
	Warranty    string `db:"warranty"`
}

// AccessorySnapshot is what the sale coordinator needs from an accessory row.
type AccessorySnapshot struct {
	CostPrice   int64  `db:"cost_price"`
	Quantity    int64  `db:"quantity"`
	ProductName string `db:"product_name"`
	Storage     string `db:"storage"`
	Color       string `db:"color"`
	Warranty    string `db:"warranty"`
}

// UnitInput holds the fields accepted by unit intake.
type UnitInput struct {
	ProductName string
	SerialNo    string
	IMEI        string
	Storage     string
	Color       string
	Warranty    string
	Origin      string
	CostPrice   int64
	IntakeDate  string
}

// UnitPatch holds partial-update fields; nil pointers preserve prior values.
type UnitPatch struct {
	ProductName *string
	SerialNo    *string
	IMEI        *string
	Storage     *string
	Color       *string
	Warranty    *string
	Origin      *string
	CostPrice   *int64
	IntakeDate  *string
	Status      *string
}

const unitColumns = `id, product_name, COALESCE(serial_no, '') AS serial_no, COALESCE(imei, '') AS imei,
        storage, color, warranty, origin, cost_price, intake_date, status, created_at`

// CreateUnit inserts a new unit in READY status and returns its id.
func (s *Inventory) CreateUnit(ctx context.Context, in UnitInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO stock_units
        (product_name, serial_no, imei, storage, color, warranty, origin, cost_price, intake_date, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ProductName, nullIfEmpty(in.SerialNo), nullIfEmpty(in.IMEI),
		in.Storage, in.Color, in.Warranty, in.Origin, in.CostPrice, in.IntakeDate, domain.StatusReady)
	if err != nil {
		return 0, fmt.Errorf("insert unit: %w", err)
	}
	return res.LastInsertId()
}

// UpdateUnit applies a partial update; unset fields keep their prior value.
func (s *Inventory) UpdateUnit(ctx context.Context, id int64, p UnitPatch) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stock_units SET
        product_name = COALESCE(?, product_name),
        serial_no    = COALESCE(?, serial_no),
        imei         = COALESCE(?, imei),
        storage      = COALESCE(?, storage),
        color        = COALESCE(?, color),
        warranty     = COALESCE(?, warranty),
        origin       = COALESCE(?, origin),
        cost_price   = COALESCE(?, cost_price),
        intake_date  = COALESCE(?, intake_date),
        status       = COALESCE(?, status)
        WHERE id = ?`,
		p.ProductName, p.SerialNo, p.IMEI, p.Storage, p.Color, p.Warranty,
		p.Origin, p.CostPrice, p.IntakeDate, p.Status, id)
	if err != nil {
		return fmt.Errorf("update unit %d: %w", id, err)
	}
	return requireRow(res)
}

// DeleteUnit removes a unit. Units that have been sold stay on the books:
// deletion is rejected unless the unit is READY.
func (s *Inventory) DeleteUnit(ctx context.Context, id int64) error {
	var status string
	err := s.db.GetContext(ctx, &status, `SELECT status FROM stock_units WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load unit %d: %w", id, err)
	}
	if status != domain.StatusReady {
		return ErrUnitNotReady
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM stock_units WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete unit %d: %w", id, err)
	}
	return nil
}

// ListUnits returns a page of units plus the total count of matching rows.
func (s *Inventory) ListUnits(ctx context.Context, f Filter) ([]domain.StockUnit, int, error) {
	f = f.Normalize()

	var (
		clauses []string
		args    []any
	)
	if f.Status == domain.StatusReady || f.Status == domain.StatusSold {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		clauses = append(clauses, likeClause([]string{
			"product_name", "serial_no", "imei", "storage", "color", "warranty", "origin",
		}, pattern, &args))
	}
	if f.From != "" {
		clauses = append(clauses, "intake_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "intake_date <= ?")
		args = append(args, f.To)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stock_units`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count units: %w", err)
	}

	units := []domain.StockUnit{}
	query := `SELECT ` + unitColumns + ` FROM stock_units` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &units, query, append(args, f.PageSize, f.offset())...); err != nil {
		return nil, 0, fmt.Errorf("list units: %w", err)
	}
	return units, total, nil
}

// LookupUnit resolves a unit by serial number or IMEI.
func (s *Inventory) LookupUnit(ctx context.Context, key string) (UnitSnapshot, error) {
	var snap UnitSnapshot
	err := s.db.GetContext(ctx, &snap, `SELECT cost_price, status, product_name, storage, color, warranty
        FROM stock_units WHERE serial_no = ? OR imei = ?`, key, key)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, ErrNotFound
	}
	if err != nil {
		return snap, fmt.Errorf("lookup unit %q: %w", key, err)
	}
	return snap, nil
}

// MarkSold flips a READY unit to SOLD, keyed by serial number or IMEI.
func (s *Inventory) MarkSold(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stock_units SET status = ?
        WHERE (serial_no = ? OR imei = ?) AND status = ?`,
		domain.StatusSold, key, key, domain.StatusReady)
	if err != nil {
		return fmt.Errorf("mark sold %q: %w", key, err)
	}
	return requireRow(res)
}

// MarkReady reverses a sale: SOLD goes back to READY. A unit that was never
// marked SOLD (a swallowed bookkeeping failure at sale time) is left alone.
func (s *Inventory) MarkReady(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE stock_units SET status = ?
        WHERE (serial_no = ? OR imei = ?) AND status = ?`,
		domain.StatusReady, key, key, domain.StatusSold)
	if err != nil {
		return fmt.Errorf("mark ready %q: %w", key, err)
	}
	return nil
}

// AccessoryInput holds the fields accepted by accessory intake.
type AccessoryInput struct {
	SKU         string
	ProductName string
	Storage     string
	Color       string
	Warranty    string
	Origin      string
	CostPrice   int64
	Quantity    int64
	IntakeDate  string
}

// AccessoryPatch holds partial-update fields; nil pointers preserve prior values.
type AccessoryPatch struct {
	SKU         *string
	ProductName *string
	Storage     *string
	Color       *string
	Warranty    *string
	Origin      *string
	CostPrice   *int64
	Quantity    *int64
	IntakeDate  *string
}

// CreateAccessory inserts a new accessory row and returns its id.
func (s *Inventory) CreateAccessory(ctx context.Context, in AccessoryInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO stock_accessories
        (sku, product_name, storage, color, warranty, origin, cost_price, quantity, intake_date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.SKU, in.ProductName, in.Storage, in.Color, in.Warranty, in.Origin,
		in.CostPrice, in.Quantity, in.IntakeDate)
	if err != nil {
		return 0, fmt.Errorf("insert accessory: %w", err)
	}
	return res.LastInsertId()
}

// UpdateAccessory applies a partial update; unset fields keep their prior value.
func (s *Inventory) UpdateAccessory(ctx context.Context, id int64, p AccessoryPatch) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stock_accessories SET
        sku          = COALESCE(?, sku),
        product_name = COALESCE(?, product_name),
        storage      = COALESCE(?, storage),
        color        = COALESCE(?, color),
        warranty     = COALESCE(?, warranty),
        origin       = COALESCE(?, origin),
        cost_price   = COALESCE(?, cost_price),
        quantity     = COALESCE(?, quantity),
        intake_date  = COALESCE(?, intake_date)
        WHERE id = ?`,
		p.SKU, p.ProductName, p.Storage, p.Color, p.Warranty, p.Origin,
		p.CostPrice, p.Quantity, p.IntakeDate, id)
	if err != nil {
		return fmt.Errorf("update accessory %d: %w", id, err)
	}
	return requireRow(res)
}

// DeleteAccessory removes an accessory row. No status guard applies.
func (s *Inventory) DeleteAccessory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stock_accessories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete accessory %d: %w", id, err)
	}
	return requireRow(res)
}

// ListAccessories returns a page of accessories plus the total matching count.
func (s *Inventory) ListAccessories(ctx context.Context, f Filter) ([]domain.StockAccessory, int, error) {
	f = f.Normalize()

	var (
		clauses []string
		args    []any
	)
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		clauses = append(clauses, likeClause([]string{
			"product_name", "sku", "storage", "color", "warranty", "origin",
		}, pattern, &args))
	}
	if f.From != "" {
		clauses = append(clauses, "intake_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "intake_date <= ?")
		args = append(args, f.To)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stock_accessories`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count accessories: %w", err)
	}

	accessories := []domain.StockAccessory{}
	query := `SELECT id, sku, product_name, storage, color, warranty, origin, cost_price, quantity, intake_date, created_at
        FROM stock_accessories` + where + ` ORDER BY intake_date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &accessories, query, append(args, f.PageSize, f.offset())...); err != nil {
		return nil, 0, fmt.Errorf("list accessories: %w", err)
	}
	return accessories, total, nil
}

// LookupAccessory resolves an accessory by SKU.
func (s *Inventory) LookupAccessory(ctx context.Context, sku string) (AccessorySnapshot, error) {
	var snap AccessorySnapshot
	err := s.db.GetContext(ctx, &snap, `SELECT cost_price, quantity, product_name, storage, color, warranty
        FROM stock_accessories WHERE sku = ?`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, ErrNotFound
	}
	if err != nil {
		return snap, fmt.Errorf("lookup accessory %q: %w", sku, err)
	}
	return snap, nil
}

// Decrement takes one item of accessory stock. With floor set, the update
// refuses to take quantity below zero and reports ErrInsufficientStock.
func (s *Inventory) Decrement(ctx context.Context, sku string, floor bool) error {
	query := `UPDATE stock_accessories SET quantity = quantity - 1 WHERE sku = ?`
	if floor {
		query += ` AND quantity > 0`
	}
	res, err := s.db.ExecContext(ctx, query, sku)
	if err != nil {
		return fmt.Errorf("decrement %q: %w", sku, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if !floor {
			return ErrNotFound
		}
		// Distinguish a missing SKU from an exhausted one.
		if _, lookupErr := s.LookupAccessory(ctx, sku); lookupErr != nil {
			return lookupErr
		}
		return ErrInsufficientStock
	}
	return nil
}

// Increment returns one item of accessory stock, unconditionally.
func (s *Inventory) Increment(ctx context.Context, sku string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stock_accessories SET quantity = quantity + 1 WHERE sku = ?`, sku)
	if err != nil {
		return fmt.Errorf("increment %q: %w", sku, err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
