package domain

// Sale is one ledger row. ProductName, variant fields and CostPrice are
// snapshots copied from inventory at sale time; Profit is computed once as
// SellPrice - CostPrice and neither follows later inventory edits.
type Sale struct {
	ID           int64  `db:"id" json:"id"`
	InvoiceID    string `db:"invoice_id" json:"invoice_id"`
	SaleDate     string `db:"sale_date" json:"sale_date"`
	Kind         string `db:"kind" json:"kind"`
	ItemKey      string `db:"item_key" json:"item_key"`
	ProductName  string `db:"product_name" json:"product_name"`
	Storage      string `db:"storage" json:"storage"`
	Color        string `db:"color" json:"color"`
	Warranty     string `db:"warranty" json:"warranty"`
	CostPrice    int64  `db:"cost_price" json:"cost_price"`
	SellPrice    int64  `db:"sell_price" json:"sell_price"`
	Profit       int64  `db:"profit" json:"profit"`
	BuyerName    string `db:"buyer_name" json:"buyer_name,omitempty"`
	BuyerAddress string `db:"buyer_address" json:"buyer_address,omitempty"`
	BuyerPhone   string `db:"buyer_phone" json:"buyer_phone,omitempty"`
	Referral     string `db:"referral" json:"referral,omitempty"`
	SoldBy       string `db:"sold_by" json:"sold_by"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}
