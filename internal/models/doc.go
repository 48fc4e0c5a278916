// Package models defines the core domain entities for BillEase.
//
// # Entities
//
//   - Item: a single unit-priced line on the bill, optionally assigned to a target
//   - Person: one diner splitting the bill
//   - CustomPool: a named subgroup of people sharing specific items equally
//   - BillCharges: bill-level subtotal, VAT, service charge and delivery fee
//
// # Derived values
//
//   - PersonSummary and Summary are computed by the calculator package from a
//     state snapshot. They are never stored; every read recomputes them.
//
// # Design principles
//
//  1. Assignments are weak references: Item.AssignedTo carries an id, not a
//     pointer, so the state store can cascade deletions without chasing links.
//  2. Money is decimal end to end. Rounding to two places happens only at the
//     API boundary, never during accumulation.
//  3. People and pools may be persisted between sessions; items, assignments
//     and charges are deliberately session-local.
package models
