// Package store holds the canonical bill state and applies mutation commands.
//
// Every mutation is a Command applied atomically to an immutable snapshot:
// apply receives a private copy of the current State and returns the next
// one, so a failed command leaves the store exactly where it was. Cascading
// cleanup (person removal unassigning items, emptied pools being deleted and
// unassigning theirs) runs transitively inside a single command application.
package store

import (
	"errors"
	"fmt"

	"github.com/billease/billease/internal/models"
)

// DefaultMaxPeople bounds SetPeopleCount when no explicit bound is given.
const DefaultMaxPeople = 20

// Notice sources for advisory messages recorded in state.
const (
	SourceExtraction = "extraction"
	SourceSuggestion = "suggestion"
)

// Notice is an advisory, user-visible message recorded by a failed
// collaborator call. It is data, not control flow: the rest of the state is
// untouched when a Notice is set.
type Notice struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// State is the single source of truth for one bill session.
type State struct {
	Items     []models.Item       `json:"items"`
	People    []models.Person     `json:"people"`
	Pools     []models.CustomPool `json:"pools"`
	Charges   models.BillCharges  `json:"charges"`
	PriceMode models.PriceMode    `json:"priceMode"`
	Notice    *Notice             `json:"notice,omitempty"`
}

func initialState() State {
	return State{PriceMode: models.PriceModeUnit}
}

// clone deep-copies the state so commands can mutate their copy freely.
func (s State) clone() State {
	next := s
	next.Items = make([]models.Item, len(s.Items))
	copy(next.Items, s.Items)
	next.People = make([]models.Person, len(s.People))
	copy(next.People, s.People)
	next.Pools = make([]models.CustomPool, len(s.Pools))
	for i, p := range s.Pools {
		ids := make([]string, len(p.PersonIDs))
		copy(ids, p.PersonIDs)
		p.PersonIDs = ids
		next.Pools[i] = p
	}
	if s.Notice != nil {
		n := *s.Notice
		next.Notice = &n
	}
	return next
}

// personByID returns the person with the given id, if any.
func (s State) personByID(id string) (models.Person, bool) {
	for _, p := range s.People {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// poolExists reports whether a pool with the given id exists.
func (s State) poolExists(id string) bool {
	for _, p := range s.Pools {
		if p.ID == id {
			return true
		}
	}
	return false
}

// reconcile restores referential integrity after people or pools changed:
// pool members referencing missing people are dropped, emptied pools are
// deleted, and items targeting missing people or pools are unassigned.
// Running it once covers the transitive case, since pool pruning can only be
// triggered by person removal and item unassignment is checked last.
func (s State) reconcile() State {
	personIDs := make(map[string]bool, len(s.People))
	for _, p := range s.People {
		personIDs[p.ID] = true
	}

	pools := s.Pools[:0]
	for _, pool := range s.Pools {
		members := pool.PersonIDs[:0]
		for _, id := range pool.PersonIDs {
			if personIDs[id] {
				members = append(members, id)
			}
		}
		pool.PersonIDs = members
		if len(pool.PersonIDs) > 0 {
			pools = append(pools, pool)
		}
	}
	s.Pools = pools

	poolIDs := make(map[string]bool, len(s.Pools))
	for _, pool := range s.Pools {
		poolIDs[pool.ID] = true
	}

	for i, item := range s.Items {
		switch {
		case item.AssignedTo.IsPerson() && !personIDs[item.AssignedTo.ID]:
			s.Items[i].AssignedTo = models.NoTarget()
		case item.AssignedTo.IsPool() && !poolIDs[item.AssignedTo.ID]:
			s.Items[i].AssignedTo = models.NoTarget()
		}
	}
	return s
}

// ValidationError is a rejected command payload. The store remains in its
// prior valid state; the message is meant for the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func errValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a command validation rejection.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
