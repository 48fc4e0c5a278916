// Package service orchestrates the bill core: it dispatches commands to the
// state store, recomputes summaries through the calculator, invokes the
// external extraction/suggestion collaborators, and keeps the persisted
// people/pool lists in sync.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/billease/billease/internal/ai"
	"github.com/billease/billease/internal/calculator"
	"github.com/billease/billease/internal/metrics"
	"github.com/billease/billease/internal/models"
	"github.com/billease/billease/internal/storage"
	"github.com/billease/billease/internal/store"
)

// BillService owns one bill session. It is safe for concurrent use: the
// state store serializes command application, and the summary is recomputed
// from a snapshot on every read.
type BillService struct {
	state     *store.Store
	db        storage.Store
	extractor ai.Extractor
	suggester ai.Suggester
	maxPeople int
}

// Option configures a BillService.
type Option func(*BillService)

// WithMaxPeople bounds SetPeopleCount. Zero keeps the default.
func WithMaxPeople(n int) Option {
	return func(s *BillService) { s.maxPeople = n }
}

// NewBillService creates a service over the given persistence backend and
// collaborators.
func NewBillService(db storage.Store, extractor ai.Extractor, suggester ai.Suggester, opts ...Option) *BillService {
	s := &BillService{
		state:     store.New(),
		db:        db,
		extractor: extractor,
		suggester: suggester,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// dispatch applies a command and records the outcome metric.
func (s *BillService) dispatch(cmd store.Command) error {
	err := s.state.Dispatch(cmd)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	metrics.CommandsTotal.WithLabelValues(cmd.Name(), outcome).Inc()
	if err != nil {
		slog.Warn("Command rejected", "command", cmd.Name(), "error", err)
	}
	return err
}

// Snapshot returns the current state.
func (s *BillService) Snapshot() store.State {
	return s.state.Snapshot()
}

// Summary recomputes the per-person breakdown from the latest snapshot.
func (s *BillService) Summary() models.Summary {
	return calculator.Summarize(s.state.Snapshot())
}

// ExtractFromImage runs the extraction collaborator on a bill photo and, on
// success, replaces the item list and charges. On failure the state is left
// unchanged except for a recorded advisory message.
func (s *BillService) ExtractFromImage(ctx context.Context, imageDataURI string) error {
	result, err := s.extractor.ExtractItems(ctx, imageDataURI)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("error").Inc()
		slog.Error("Bill extraction failed", "error", err)
		s.dispatch(store.RecordFailure{
			Source:  store.SourceExtraction,
			Message: fmt.Sprintf("could not read the bill: %v", err),
		})
		return err
	}

	lines := make([]store.ExtractedLine, len(result.Items))
	for i, item := range result.Items {
		lines[i] = store.ExtractedLine{
			Name:     item.Name,
			Price:    store.PriceFromFloat(item.Price),
			Quantity: item.Quantity,
		}
	}
	charges := models.BillCharges{
		Subtotal:      store.PriceFromFloat(result.Subtotal),
		VAT:           store.PriceFromFloat(result.VAT),
		ServiceCharge: store.PriceFromFloat(result.ServiceCharge),
		Delivery:      store.PriceFromFloat(result.Delivery),
	}

	if err := s.dispatch(store.SetItemsFromExtraction{Lines: lines, Charges: charges}); err != nil {
		return err
	}

	metrics.ExtractionsTotal.WithLabelValues("ok").Inc()
	slog.Info("Bill extracted", "lines", len(lines), "items", len(s.Snapshot().Items))
	return nil
}

// SuggestAssignments asks the suggestion collaborator to map the currently
// unassigned items to people, validates the mapping against current state,
// and applies what survives. Zero usable mappings counts as a failure: the
// message is recorded and no assignment changes.
func (s *BillService) SuggestAssignments(ctx context.Context) (int, error) {
	snapshot := s.Snapshot()

	var itemNames []string
	seen := make(map[string]bool)
	for _, item := range snapshot.Items {
		if item.AssignedTo.IsNone() && !seen[item.Name] {
			seen[item.Name] = true
			itemNames = append(itemNames, item.Name)
		}
	}
	peopleNames := make([]string, len(snapshot.People))
	for i, p := range snapshot.People {
		peopleNames[i] = p.Name
	}

	mapping, err := s.suggester.SuggestAssignments(ctx, itemNames, peopleNames)
	if err != nil {
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		slog.Error("Assignment suggestion failed", "error", err)
		s.dispatch(store.RecordFailure{
			Source:  store.SourceSuggestion,
			Message: fmt.Sprintf("could not suggest assignments: %v", err),
		})
		return 0, err
	}

	cmd := &store.ApplySuggestedAssignments{Assignments: mapping}
	if err := s.dispatch(cmd); err != nil {
		return 0, err
	}
	if cmd.Applied == 0 {
		metrics.SuggestionsTotal.WithLabelValues("unusable").Inc()
		err := fmt.Errorf("suggestion produced no usable assignments")
		s.dispatch(store.RecordFailure{
			Source:  store.SourceSuggestion,
			Message: err.Error(),
		})
		return 0, err
	}

	metrics.SuggestionsTotal.WithLabelValues("ok").Inc()
	slog.Info("Suggested assignments applied", "count", cmd.Applied)
	return cmd.Applied, nil
}

// AddItem appends a manually entered item.
func (s *BillService) AddItem(name string, price float64) error {
	return s.dispatch(store.AddItem{ItemName: name, Price: store.PriceFromFloat(price)})
}

// UpdateItem overwrites the provided item fields.
func (s *BillService) UpdateItem(id string, name *string, price *float64) error {
	cmd := store.UpdateItem{ID: id, ItemName: name}
	if price != nil {
		p := store.PriceFromFloat(*price)
		cmd.Price = &p
	}
	return s.dispatch(cmd)
}

// DeleteItem removes an item.
func (s *BillService) DeleteItem(id string) error {
	return s.dispatch(store.DeleteItem{ID: id})
}

// SetCharge overwrites one bill-level charge field.
func (s *BillService) SetCharge(field models.ChargeField, value float64) error {
	return s.dispatch(store.SetCharge{Field: field, Value: store.PriceFromFloat(value)})
}

// SetPriceMode changes how extracted line prices are read.
func (s *BillService) SetPriceMode(mode models.PriceMode) error {
	return s.dispatch(store.SetPriceMode{Mode: mode})
}

// SetPeopleCount grows or shrinks the people list, cascading cleanup of
// assignments and pool memberships.
func (s *BillService) SetPeopleCount(count int) error {
	return s.dispatch(store.SetPeopleCount{Count: count, Max: s.maxPeople})
}

// RenamePerson sets a person's display name.
func (s *BillService) RenamePerson(id, name string) error {
	return s.dispatch(store.RenamePerson{ID: id, PersonName: name})
}

// SavePeople persists the current people list for future sessions.
func (s *BillService) SavePeople(ctx context.Context) error {
	people := s.Snapshot().People
	if err := s.db.SavePeople(ctx, people); err != nil {
		slog.Error("Failed to save people", "error", err)
		return err
	}
	slog.Info("People list saved", "count", len(people))
	return nil
}

// CreatePool adds a custom shared pool and persists the pool list.
func (s *BillService) CreatePool(ctx context.Context, name string, personIDs []string) error {
	if err := s.dispatch(store.CreatePool{PoolName: name, PersonIDs: personIDs}); err != nil {
		return err
	}
	s.persistPools(ctx)
	return nil
}

// UpdatePool overwrites pool fields and persists the pool list.
func (s *BillService) UpdatePool(ctx context.Context, id string, name *string, personIDs *[]string) error {
	if err := s.dispatch(store.UpdatePool{ID: id, PoolName: name, PersonIDs: personIDs}); err != nil {
		return err
	}
	s.persistPools(ctx)
	return nil
}

// DeletePool removes a pool, unassigns its items, and persists the pool list.
func (s *BillService) DeletePool(ctx context.Context, id string) error {
	if err := s.dispatch(store.DeletePool{ID: id}); err != nil {
		return err
	}
	s.persistPools(ctx)
	return nil
}

// persistPools best-effort saves the current pools; persistence failures are
// logged, not surfaced, since the in-memory state already changed.
func (s *BillService) persistPools(ctx context.Context) {
	if err := s.db.SavePools(ctx, s.Snapshot().Pools); err != nil {
		slog.Error("Failed to save pools", "error", err)
	}
}

// AssignItem points an item at a target.
func (s *BillService) AssignItem(itemID string, target models.AssignTarget) error {
	return s.dispatch(store.AssignItem{ItemID: itemID, Target: target})
}

// ResetAssignments unassigns every item.
func (s *BillService) ResetAssignments() error {
	return s.dispatch(store.ResetAssignments{})
}

// LoadSaved restores the persisted people and pool lists into state.
// Malformed persisted data was already discarded by the storage layer; load
// errors are logged and otherwise ignored so a corrupt database never blocks
// startup.
func (s *BillService) LoadSaved(ctx context.Context) {
	people, err := s.db.LoadPeople(ctx)
	if err != nil {
		slog.Warn("Could not load saved people", "error", err)
	} else if len(people) > 0 {
		s.dispatch(store.LoadPeople{People: people})
		slog.Info("Loaded saved people", "count", len(people))
	}

	pools, err := s.db.LoadPools(ctx)
	if err != nil {
		slog.Warn("Could not load saved pools", "error", err)
	} else if len(pools) > 0 {
		s.dispatch(store.LoadCustomPools{Pools: pools})
		slog.Info("Loaded saved pools", "count", len(pools))
	}
}

// ResetAll returns the session to the empty initial state and clears the
// persisted lists, matching the product's "reset entire app" behavior.
func (s *BillService) ResetAll(ctx context.Context) error {
	if err := s.dispatch(store.ResetAll{}); err != nil {
		return err
	}
	if err := s.db.Clear(ctx); err != nil {
		slog.Error("Failed to clear persisted data", "error", err)
		return err
	}
	slog.Info("Bill session reset")
	return nil
}
