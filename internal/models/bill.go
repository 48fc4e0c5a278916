package models

import "github.com/shopspring/decimal"

// Item represents a single unit-priced line on the bill.
// An extracted line with quantity 3 becomes 3 separate Items so that each
// unit can be assigned independently.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the item description as printed on the bill (e.g., "Fries").
	Name string `json:"name"`

	// Price is the non-negative unit price.
	Price decimal.Decimal `json:"price"`

	// AssignedTo is a weak reference to the cost target: a person, a custom
	// pool, the shared-by-everyone pool, or nothing. The state store clears
	// it when the referent disappears.
	AssignedTo AssignTarget `json:"assignedTo"`
}

// Person is one diner splitting the bill.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name, defaulting to "Person N" until renamed.
	Name string `json:"name"`
}

// CustomPool is a named subgroup of people who share specific items equally
// among themselves (e.g., "Appetizers" shared by 3 of 5 diners).
//
// Creating or editing a pool requires at least two distinct existing members.
// Headcount shrinks may leave a pool with one member; only an empty pool is
// deleted, cascading to unassign its items.
type CustomPool struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	PersonIDs []string `json:"personIds"`
}

// ChargeField names one of the independently editable bill-level charges.
type ChargeField string

const (
	ChargeSubtotal      ChargeField = "subtotal"
	ChargeVAT           ChargeField = "vat"
	ChargeServiceCharge ChargeField = "serviceCharge"
	ChargeDelivery      ChargeField = "delivery"
)

// BillCharges holds the bill-level figures, typically seeded from extraction
// and overridable field by field. All values are non-negative.
type BillCharges struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Delivery      decimal.Decimal `json:"delivery"`
}

// GrandTotal is the bill-level sum of all charge fields. It is intentionally
// independent of the sum of per-person totals; the two diverge when the
// stored subtotal disagrees with the entered items.
func (c BillCharges) GrandTotal() decimal.Decimal {
	return c.Subtotal.Add(c.VAT).Add(c.ServiceCharge).Add(c.Delivery)
}

// PriceMode says how extracted line prices should be read.
type PriceMode string

const (
	// PriceModeUnit treats an extracted price as the per-unit price.
	PriceModeUnit PriceMode = "unit"

	// PriceModeTotal treats an extracted price as the line total, so the
	// unit price is derived by dividing by the quantity.
	PriceModeTotal PriceMode = "total"
)

// Valid reports whether the mode is one of the known values.
func (m PriceMode) Valid() bool {
	return m == PriceModeUnit || m == PriceModeTotal
}
