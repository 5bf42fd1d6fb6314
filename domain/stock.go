package domain

// Lifecycle states of a serialized stock unit.
const (
	StatusReady = "READY"
	StatusSold  = "SOLD"
)

// Sale kind discriminators.
const (
	KindUnit      = "UNIT"
	KindAccessory = "AKSESORIS"
)

// StockUnit is a serialized inventory item (one physical phone).
type StockUnit struct {
	ID          int64  `db:"id" json:"id"`
	ProductName string `db:"product_name" json:"product_name"`
	SerialNo    string `db:"serial_no" json:"serial_no"`
	IMEI        string `db:"imei" json:"imei"`
	Storage     string `db:"storage" json:"storage"`
	Color       string `db:"color" json:"color"`
	Warranty    string `db:"warranty" json:"warranty"`
	Origin      string `db:"origin" json:"origin"`
	CostPrice   int64  `db:"cost_price" json:"cost_price"`
	IntakeDate  string `db:"intake_date" json:"intake_date"`
	Status      string `db:"status" json:"status"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// StockAccessory is fungible inventory tracked by on-hand quantity.
type StockAccessory struct {
	ID          int64  `db:"id" json:"id"`
	SKU         string `db:"sku" json:"sku"`
	ProductName string `db:"product_name" json:"product_name"`
	Storage     string `db:"storage" json:"storage"`
	Color       string `db:"color" json:"color"`
	Warranty    string `db:"warranty" json:"warranty"`
	Origin      string `db:"origin" json:"origin"`
	CostPrice   int64  `db:"cost_price" json:"cost_price"`
	Quantity    int64  `db:"quantity" json:"quantity"`
	IntakeDate  string `db:"intake_date" json:"intake_date"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}
