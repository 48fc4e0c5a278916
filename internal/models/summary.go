package models

import "github.com/shopspring/decimal"

// PoolContribution is one person's equal share of an active custom pool.
type PoolContribution struct {
	PoolID   string          `json:"poolId"`
	PoolName string          `json:"poolName"`
	Amount   decimal.Decimal `json:"amount"`
}

// PersonSummary is the computed breakdown for one person. It is derived from
// a state snapshot on every read and never persisted.
type PersonSummary struct {
	PersonID string `json:"personId"`
	Name     string `json:"name"`

	// Items are the items directly assigned to this person.
	Items []Item `json:"items"`

	// ItemsSubtotal is the sum of directly assigned item prices.
	ItemsSubtotal decimal.Decimal `json:"itemsSubtotal"`

	// SharedPortion is this person's equal share of the shared-by-everyone pool.
	SharedPortion decimal.Decimal `json:"sharedPortion"`

	// PoolContributions are the shares of active custom pools this person
	// belongs to. Pools with no item value are omitted.
	PoolContributions []PoolContribution `json:"poolContributions,omitempty"`

	// VATShare and ServiceChargeShare are apportioned to this person in
	// proportion to their share of the bill's effective subtotal.
	VATShare           decimal.Decimal `json:"vatShare"`
	ServiceChargeShare decimal.Decimal `json:"serviceChargeShare"`

	// DeliveryShare is always an equal per-head split, never proportional.
	DeliveryShare decimal.Decimal `json:"deliveryShare"`

	// TotalDue is everything above added together.
	TotalDue decimal.Decimal `json:"totalDue"`
}

// Subtotal is the person's full contribution base: direct items plus the
// everyone-pool share plus custom pool shares.
func (p PersonSummary) Subtotal() decimal.Decimal {
	total := p.ItemsSubtotal.Add(p.SharedPortion)
	for _, c := range p.PoolContributions {
		total = total.Add(c.Amount)
	}
	return total
}

// Summary is the complete allocation result for a state snapshot.
//
// GrandTotal comes straight from the stored charges and is allowed to
// disagree with the sum of per-person totals; ItemsTotal and EffectiveBase
// are included so callers can see the divergence rather than have it hidden.
type Summary struct {
	// People holds one row per person, in people-list order.
	People []PersonSummary `json:"people"`

	// GrandTotal = subtotal + vat + serviceCharge + delivery from the
	// stored charges record.
	GrandTotal decimal.Decimal `json:"grandTotal"`

	// ItemsTotal is the sum of every item price currently entered.
	ItemsTotal decimal.Decimal `json:"itemsTotal"`

	// SharedItemsTotal is the value sitting in the shared-by-everyone pool.
	// Reported even when there is nobody to distribute it to.
	SharedItemsTotal decimal.Decimal `json:"sharedItemsTotal"`

	// EffectiveBase is the denominator used for proportional VAT/service
	// distribution: the stored subtotal when trustworthy, else ItemsTotal.
	EffectiveBase decimal.Decimal `json:"effectiveBase"`
}
