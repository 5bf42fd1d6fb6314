// Package ledger implements the sale transaction coordinator: it snapshots
// inventory cost into the sale ledger, derives profit, and keeps inventory
// state in step with sale creation and deletion.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"tokoponsel/m/domain"
	"tokoponsel/m/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Options toggle the two behaviors that are deliberately configurable.
type Options struct {
	// RecomputeProfitOnEdit re-derives profit when a sale's sell price is
	// edited. Off: profit stays frozen at its creation-time value.
	RecomputeProfitOnEdit bool

	// EnforceAccessoryStock rejects accessory sales at zero quantity
	// instead of letting the count go negative.
	EnforceAccessoryStock bool
}

// Coordinator runs the sale-against-inventory transaction. The inventory
// mutation that follows a ledger write is best-effort: the ledger row is the
// durable record, bookkeeping failures are logged and swallowed.
type Coordinator struct {
	inventory *store.Inventory
	sales     *store.Sales
	log       logrus.FieldLogger
	opts      Options
}

// New constructs a Coordinator.
func New(inventory *store.Inventory, sales *store.Sales, log logrus.FieldLogger, opts Options) *Coordinator {
	return &Coordinator{inventory: inventory, sales: sales, log: log, opts: opts}
}

// SaleInput is a sale request. Variant and buyer fields are optional; empty
// variant fields fall back to the values on the inventory row.
type SaleInput struct {
	InvoiceID    string `json:"invoice_id" validate:"required"`
	Kind         string `json:"kind" validate:"required,oneof=UNIT AKSESORIS"`
	ItemKey      string `json:"item_key" validate:"required"`
	SaleDate     string `json:"sale_date" validate:"required,datetime=2006-01-02"`
	ProductName  string `json:"product_name" validate:"required"`
	SellPrice    int64  `json:"sell_price" validate:"required,gt=0"`
	Storage      string `json:"storage"`
	Color        string `json:"color"`
	Warranty     string `json:"warranty"`
	BuyerName    string `json:"buyer_name"`
	BuyerAddress string `json:"buyer_address"`
	BuyerPhone   string `json:"buyer_phone"`
	Referral     string `json:"referral"`
}

// SalePatch carries the mutable fields of an existing sale. Cost and profit
// are not among them; see Options.RecomputeProfitOnEdit.
type SalePatch struct {
	SaleDate     *string `json:"sale_date" validate:"omitempty,datetime=2006-01-02"`
	BuyerName    *string `json:"buyer_name"`
	BuyerAddress *string `json:"buyer_address"`
	BuyerPhone   *string `json:"buyer_phone"`
	SellPrice    *int64  `json:"sell_price" validate:"omitempty,gt=0"`
	Referral     *string `json:"referral"`
}

// RecordSale validates the input, snapshots cost from inventory, writes the
// ledger row with profit = sell price - cost, then mutates inventory.
// soldBy is the salesperson identity as resolved by the caller; pass
// "UNKNOWN" when no identity is available.
func (c *Coordinator) RecordSale(ctx context.Context, in SaleInput, soldBy string) (int64, int64, error) {
	if err := validate.Struct(in); err != nil {
		return 0, 0, err
	}
	if soldBy == "" {
		soldBy = "UNKNOWN"
	}

	var cost int64
	switch in.Kind {
	case domain.KindUnit:
		snap, err := c.inventory.LookupUnit(ctx, in.ItemKey)
		if errors.Is(err, store.ErrNotFound) {
			return 0, 0, fmt.Errorf("serial %q: %w", in.ItemKey, store.ErrReferenceNotFound)
		}
		if err != nil {
			return 0, 0, err
		}
		if snap.Status != domain.StatusReady {
			return 0, 0, fmt.Errorf("serial %q: %w", in.ItemKey, store.ErrUnitNotReady)
		}
		cost = snap.CostPrice
		fillVariant(&in, snap.Storage, snap.Color, snap.Warranty)
	case domain.KindAccessory:
		snap, err := c.inventory.LookupAccessory(ctx, in.ItemKey)
		if errors.Is(err, store.ErrNotFound) {
			return 0, 0, fmt.Errorf("sku %q: %w", in.ItemKey, store.ErrReferenceNotFound)
		}
		if err != nil {
			return 0, 0, err
		}
		if c.opts.EnforceAccessoryStock && snap.Quantity <= 0 {
			return 0, 0, fmt.Errorf("sku %q: %w", in.ItemKey, store.ErrInsufficientStock)
		}
		cost = snap.CostPrice
		fillVariant(&in, snap.Storage, snap.Color, snap.Warranty)
	}

	id, err := c.sales.Insert(ctx, domain.Sale{
		InvoiceID:    in.InvoiceID,
		SaleDate:     in.SaleDate,
		Kind:         in.Kind,
		ItemKey:      in.ItemKey,
		ProductName:  in.ProductName,
		Storage:      in.Storage,
		Color:        in.Color,
		Warranty:     in.Warranty,
		CostPrice:    cost,
		SellPrice:    in.SellPrice,
		Profit:       in.SellPrice - cost,
		BuyerName:    in.BuyerName,
		BuyerAddress: in.BuyerAddress,
		BuyerPhone:   in.BuyerPhone,
		Referral:     in.Referral,
		SoldBy:       soldBy,
	})
	if err != nil {
		return 0, 0, err
	}

	// The ledger row is committed; inventory bookkeeping failures must not
	// undo the sale. Log and carry on.
	var mutErr error
	if in.Kind == domain.KindUnit {
		mutErr = c.inventory.MarkSold(ctx, in.ItemKey)
	} else {
		mutErr = c.inventory.Decrement(ctx, in.ItemKey, c.opts.EnforceAccessoryStock)
	}
	if mutErr != nil {
		c.log.WithFields(logrus.Fields{
			"sale_id": id,
			"kind":    in.Kind,
			"key":     in.ItemKey,
		}).WithError(mutErr).Warn("sale recorded but inventory mutation failed")
	}

	return id, in.SellPrice - cost, nil
}

// UpdateSale patches the mutable fields of a sale. Profit is recomputed
// against the frozen cost snapshot only when the coordinator was configured
// to do so and the patch carries a new sell price.
func (c *Coordinator) UpdateSale(ctx context.Context, id int64, patch SalePatch) error {
	if err := validate.Struct(patch); err != nil {
		return err
	}
	return c.sales.Update(ctx, id, store.Patch{
		SaleDate:     patch.SaleDate,
		BuyerName:    patch.BuyerName,
		BuyerAddress: patch.BuyerAddress,
		BuyerPhone:   patch.BuyerPhone,
		SellPrice:    patch.SellPrice,
		Referral:     patch.Referral,
	}, c.opts.RecomputeProfitOnEdit)
}

// DeleteSale removes a ledger row and reverses its inventory effect: a sold
// unit goes back to READY, an accessory count goes back up. The reversal is
// best-effort like the forward mutation; a unit that never made it to SOLD
// is simply left READY.
func (c *Coordinator) DeleteSale(ctx context.Context, id int64) error {
	sale, err := c.sales.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.sales.Delete(ctx, id); err != nil {
		return err
	}

	var revErr error
	if sale.Kind == domain.KindUnit {
		revErr = c.inventory.MarkReady(ctx, sale.ItemKey)
	} else {
		revErr = c.inventory.Increment(ctx, sale.ItemKey)
	}
	if revErr != nil {
		c.log.WithFields(logrus.Fields{
			"sale_id": id,
			"kind":    sale.Kind,
			"key":     sale.ItemKey,
		}).WithError(revErr).Warn("sale deleted but inventory reversal failed")
	}
	return nil
}

func fillVariant(in *SaleInput, storage, color, warranty string) {
	if in.Storage == "" {
		in.Storage = storage
	}
	if in.Color == "" {
		in.Color = color
	}
	if in.Warranty == "" {
		in.Warranty = warranty
	}
}
