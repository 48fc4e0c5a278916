// Package calculator computes the per-person monetary breakdown for a bill
// state snapshot.
//
// The engine is a pure function of its input: it owns no state, performs no
// I/O, and every invocation is independent, so it is safe to recompute on
// any read. All arithmetic stays in decimals; rounding to two places is left
// to the presentation boundary.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/billease/billease/internal/models"
	"github.com/billease/billease/internal/store"
)

// divideOrZero divides defensively: an empty pool or an empty table must
// yield a share of zero, never fail.
func divideOrZero(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}

// Summarize computes each person's share of the bill from a state snapshot.
//
// Per-person amounts are built from three sources: directly assigned items,
// an equal share of the shared-by-everyone pool, and equal shares of any
// custom pools the person belongs to (counted only while the pool actually
// holds item value). VAT and service charge are then apportioned in
// proportion to each person's share of the effective subtotal; the delivery
// fee is always a flat per-head split. The grand total comes straight from
// the stored charges record and is reported alongside the items total so a
// disagreement between the two is visible to the caller.
func Summarize(s store.State) models.Summary {
	peopleCount := len(s.People)

	// Shared-by-everyone pool and per-pool item values.
	sharedTotal := decimal.Zero
	itemsTotal := decimal.Zero
	poolTotals := make(map[string]decimal.Decimal, len(s.Pools))
	for _, item := range s.Items {
		itemsTotal = itemsTotal.Add(item.Price)
		switch {
		case item.AssignedTo.IsSharedAll():
			sharedTotal = sharedTotal.Add(item.Price)
		case item.AssignedTo.IsPool():
			poolTotals[item.AssignedTo.ID] = poolTotals[item.AssignedTo.ID].Add(item.Price)
		}
	}

	sharedShare := divideOrZero(sharedTotal, decimal.NewFromInt(int64(peopleCount)))

	// Proportional base for VAT/service distribution: trust the stated
	// subtotal only when it is positive and at least covers the entered
	// items, guarding against a stale or under-reported extraction figure.
	base := itemsTotal
	if s.Charges.Subtotal.IsPositive() && s.Charges.Subtotal.GreaterThanOrEqual(itemsTotal) {
		base = s.Charges.Subtotal
	}

	headcount := decimal.NewFromInt(int64(peopleCount))
	deliveryShare := divideOrZero(s.Charges.Delivery, headcount)

	summaries := make([]models.PersonSummary, 0, peopleCount)
	for _, person := range s.People {
		ps := models.PersonSummary{
			PersonID:      person.ID,
			Name:          person.Name,
			Items:         []models.Item{},
			SharedPortion: sharedShare,
		}
		for _, item := range s.Items {
			if item.AssignedTo.IsPerson() && item.AssignedTo.ID == person.ID {
				ps.Items = append(ps.Items, item)
				ps.ItemsSubtotal = ps.ItemsSubtotal.Add(item.Price)
			}
		}
		for _, pool := range s.Pools {
			total, active := poolTotals[pool.ID]
			if !active || !total.IsPositive() || !contains(pool.PersonIDs, person.ID) {
				continue
			}
			share := divideOrZero(total, decimal.NewFromInt(int64(len(pool.PersonIDs))))
			ps.PoolContributions = append(ps.PoolContributions, models.PoolContribution{
				PoolID:   pool.ID,
				PoolName: pool.Name,
				Amount:   share,
			})
		}

		contribution := ps.Subtotal()
		if base.IsPositive() {
			proportion := contribution.Div(base)
			ps.VATShare = s.Charges.VAT.Mul(proportion)
			ps.ServiceChargeShare = s.Charges.ServiceCharge.Mul(proportion)
		} else if peopleCount > 0 {
			// No items and no stated subtotal: fall back to a flat split so
			// cover-style charges still get distributed.
			ps.VATShare = s.Charges.VAT.Div(headcount)
			ps.ServiceChargeShare = s.Charges.ServiceCharge.Div(headcount)
		}
		ps.DeliveryShare = deliveryShare

		ps.TotalDue = contribution.
			Add(ps.VATShare).
			Add(ps.ServiceChargeShare).
			Add(ps.DeliveryShare)

		summaries = append(summaries, ps)
	}

	return models.Summary{
		People:           summaries,
		GrandTotal:       s.Charges.GrandTotal(),
		ItemsTotal:       itemsTotal,
		SharedItemsTotal: sharedTotal,
		EffectiveBase:    base,
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
