// Package ai wraps the two external collaborators of the bill core: the
// OCR/extraction call that turns a bill photo into draft items and charges,
// and the assignment-suggestion call.
//
// Both are opaque and fallible. Their output is advisory only; the state
// store validates everything before applying it, and a failure surfaces as
// an error for the service layer to record, never as a state mutation.
package ai

import "context"

// ExtractedItem is one draft line item from an extraction result.
type ExtractedItem struct {
	Name string `json:"name"`

	// Price is read according to the session's price mode: per-unit by
	// default, or the line total.
	Price float64 `json:"price"`

	// Quantity defaults to 1 when the bill does not state one.
	Quantity int `json:"quantity,omitempty"`
}

// ExtractResult is the full payload produced from a bill photo. Charge
// fields the model could not read stay zero.
type ExtractResult struct {
	Items         []ExtractedItem `json:"items"`
	Subtotal      float64         `json:"subtotal,omitempty"`
	VAT           float64         `json:"vat,omitempty"`
	ServiceCharge float64         `json:"serviceCharge,omitempty"`
	Delivery      float64         `json:"delivery,omitempty"`
}

// Extractor turns a bill photo into draft items and charges.
type Extractor interface {
	// ExtractItems accepts a data URI ("data:image/...;base64,...") of the
	// bill photo.
	ExtractItems(ctx context.Context, imageDataURI string) (ExtractResult, error)
}

// Suggester proposes which person ordered which item.
type Suggester interface {
	// SuggestAssignments returns an itemName -> personName mapping. Entries
	// are advisory; callers must validate names against current state.
	SuggestAssignments(ctx context.Context, itemNames, peopleNames []string) (map[string]string, error)
}
