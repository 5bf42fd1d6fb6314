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

// Sales is the append-mostly sale ledger.
type Sales struct {
	db *sqlx.DB
}

// NewSales constructs a Sales ledger over the given database.
func NewSales(db *sqlx.DB) *Sales {
	return &Sales{db: db}
}

const saleColumns = `id, invoice_id, sale_date, kind, item_key, product_name, storage, color, warranty,
        cost_price, sell_price, profit, buyer_name, buyer_address, buyer_phone, referral, sold_by, created_at`

// Insert writes a complete ledger row and returns its id. The caller has
// already filled in the cost snapshot and computed profit.
func (s *Sales) Insert(ctx context.Context, sale domain.Sale) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO sales
        (invoice_id, sale_date, kind, item_key, product_name, storage, color, warranty,
         cost_price, sell_price, profit, buyer_name, buyer_address, buyer_phone, referral, sold_by)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.InvoiceID, sale.SaleDate, sale.Kind, sale.ItemKey, sale.ProductName,
		sale.Storage, sale.Color, sale.Warranty, sale.CostPrice, sale.SellPrice,
		sale.Profit, sale.BuyerName, sale.BuyerAddress, sale.BuyerPhone, sale.Referral, sale.SoldBy)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	return res.LastInsertId()
}

// Get loads one ledger row by id.
func (s *Sales) Get(ctx context.Context, id int64) (domain.Sale, error) {
	var sale domain.Sale
	err := s.db.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return sale, ErrNotFound
	}
	if err != nil {
		return sale, fmt.Errorf("load sale %d: %w", id, err)
	}
	return sale, nil
}

// Patch holds the mutable sale fields. The cost snapshot is never touched;
// profit only moves when the caller opts into recomputation.
type Patch struct {
	SaleDate     *string
	BuyerName    *string
	BuyerAddress *string
	BuyerPhone   *string
	SellPrice    *int64
	Referral     *string
}

// Update applies a partial update to the mutable fields of a sale. With
// recompute set and a new sell price present, profit is re-derived against
// the frozen cost snapshot; otherwise profit keeps its creation-time value.
func (s *Sales) Update(ctx context.Context, id int64, p Patch, recompute bool) error {
	query := `UPDATE sales SET
        sale_date     = COALESCE(?, sale_date),
        buyer_name    = COALESCE(?, buyer_name),
        buyer_address = COALESCE(?, buyer_address),
        buyer_phone   = COALESCE(?, buyer_phone),
        sell_price    = COALESCE(?, sell_price),
        referral      = COALESCE(?, referral)`
	args := []any{p.SaleDate, p.BuyerName, p.BuyerAddress, p.BuyerPhone, p.SellPrice, p.Referral}
	if recompute && p.SellPrice != nil {
		query += `, profit = ? - cost_price`
		args = append(args, *p.SellPrice)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sale %d: %w", id, err)
	}
	return requireRow(res)
}

// Delete removes one ledger row.
func (s *Sales) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	return requireRow(res)
}

// List returns a page of sales plus the total count of matching rows.
func (s *Sales) List(ctx context.Context, f Filter) ([]domain.Sale, int, error) {
	f = f.Normalize()

	var (
		clauses []string
		args    []any
	)
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		clauses = append(clauses, likeClause([]string{
			"invoice_id", "product_name", "item_key", "sold_by", "referral",
		}, pattern, &args))
	}
	if f.From != "" {
		clauses = append(clauses, "sale_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "sale_date <= ?")
		args = append(args, f.To)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM sales`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	sales := []domain.Sale{}
	query := `SELECT ` + saleColumns + ` FROM sales` + where +
		` ORDER BY sale_date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &sales, query, append(args, f.PageSize, f.offset())...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	return sales, total, nil
}

// ProfitSummary aggregates the ledger over an inclusive date range.
type ProfitSummary struct {
	Count   int64 `db:"count" json:"count"`
	Revenue int64 `db:"revenue" json:"revenue"`
	Profit  int64 `db:"profit" json:"profit"`
}

// ProfitReport sums revenue and profit over sales in [from, to]. Empty
// bounds leave that side of the range open.
func (s *Sales) ProfitReport(ctx context.Context, from, to string) (ProfitSummary, error) {
	var (
		clauses []string
		args    []any
	)
	if from != "" {
		clauses = append(clauses, "sale_date >= ?")
		args = append(args, from)
	}
	if to != "" {
		clauses = append(clauses, "sale_date <= ?")
		args = append(args, to)
	}
	query := `SELECT COUNT(*) AS count, COALESCE(SUM(sell_price), 0) AS revenue, COALESCE(SUM(profit), 0) AS profit FROM sales`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	var summary ProfitSummary
	if err := s.db.GetContext(ctx, &summary, query, args...); err != nil {
		return summary, fmt.Errorf("profit report: %w", err)
	}
	return summary, nil
}
