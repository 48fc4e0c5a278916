package store

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billease/billease/internal/models"
)

// Command is one named mutation of the bill state. Implementations live in
// this package only; apply is pure and must either return the next state or
// an error with the prior state untouched.
type Command interface {
	// Name identifies the command for logging and metrics.
	Name() string

	apply(s State) (State, error)
}

// PriceFromFloat converts an untrusted numeric input to a non-negative
// decimal price. NaN, infinities and negatives normalize to zero; invalid
// input never fails.
func PriceFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func coercePrice(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func coerceCharges(c models.BillCharges) models.BillCharges {
	c.Subtotal = coercePrice(c.Subtotal)
	c.VAT = coercePrice(c.VAT)
	c.ServiceCharge = coercePrice(c.ServiceCharge)
	c.Delivery = coercePrice(c.Delivery)
	return c
}

// ExtractedLine is one line from an extraction result, before quantity
// expansion.
type ExtractedLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// SetItemsFromExtraction replaces the entire item list and charges with an
// extraction result. Each line expands to Quantity unit-priced items; in
// "total" price mode the unit price is derived as round2(price / quantity).
type SetItemsFromExtraction struct {
	Lines   []ExtractedLine
	Charges models.BillCharges
}

func (SetItemsFromExtraction) Name() string { return "set_items_from_extraction" }

func (c SetItemsFromExtraction) apply(s State) (State, error) {
	items := make([]models.Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		unit := coercePrice(line.Price)
		if s.PriceMode == models.PriceModeTotal && qty > 1 && unit.IsPositive() {
			unit = unit.Div(decimal.NewFromInt(int64(qty))).Round(2)
		}
		for i := 0; i < qty; i++ {
			items = append(items, models.Item{
				ID:         uuid.NewString(),
				Name:       line.Name,
				Price:      unit,
				AssignedTo: models.NoTarget(),
			})
		}
	}
	s.Items = items
	s.Charges = coerceCharges(c.Charges)
	s.Notice = nil
	return s, nil
}

// AddItem appends a manually entered, unassigned item.
type AddItem struct {
	ItemName string
	Price    decimal.Decimal
}

func (AddItem) Name() string { return "add_item" }

func (c AddItem) apply(s State) (State, error) {
	s.Items = append(s.Items, models.Item{
		ID:         uuid.NewString(),
		Name:       c.ItemName,
		Price:      coercePrice(c.Price),
		AssignedTo: models.NoTarget(),
	})
	return s, nil
}

// UpdateItem overwrites the provided fields of an item. An unknown id is a
// no-op.
type UpdateItem struct {
	ID       string
	ItemName *string
	Price    *decimal.Decimal
}

func (UpdateItem) Name() string { return "update_item" }

func (c UpdateItem) apply(s State) (State, error) {
	for i := range s.Items {
		if s.Items[i].ID != c.ID {
			continue
		}
		if c.ItemName != nil {
			s.Items[i].Name = *c.ItemName
		}
		if c.Price != nil {
			s.Items[i].Price = coercePrice(*c.Price)
		}
		break
	}
	return s, nil
}

// DeleteItem removes an item. An unknown id is a no-op.
type DeleteItem struct {
	ID string
}

func (DeleteItem) Name() string { return "delete_item" }

func (c DeleteItem) apply(s State) (State, error) {
	items := s.Items[:0]
	for _, item := range s.Items {
		if item.ID != c.ID {
			items = append(items, item)
		}
	}
	s.Items = items
	return s, nil
}

// SetCharge overwrites a single bill-level charge field.
type SetCharge struct {
	Field models.ChargeField
	Value decimal.Decimal
}

func (SetCharge) Name() string { return "set_charge" }

func (c SetCharge) apply(s State) (State, error) {
	value := coercePrice(c.Value)
	switch c.Field {
	case models.ChargeSubtotal:
		s.Charges.Subtotal = value
	case models.ChargeVAT:
		s.Charges.VAT = value
	case models.ChargeServiceCharge:
		s.Charges.ServiceCharge = value
	case models.ChargeDelivery:
		s.Charges.Delivery = value
	default:
		return s, errValidation("unknown charge field %q", c.Field)
	}
	return s, nil
}

// SetPriceMode changes how extracted line prices are interpreted.
type SetPriceMode struct {
	Mode models.PriceMode
}

func (SetPriceMode) Name() string { return "set_price_mode" }

func (c SetPriceMode) apply(s State) (State, error) {
	if !c.Mode.Valid() {
		return s, errValidation("unknown price mode %q", c.Mode)
	}
	s.PriceMode = c.Mode
	return s, nil
}

// SetPeopleCount grows or shrinks the people list to Count, clamped to
// [0, Max] (Max <= 0 means DefaultMaxPeople). Existing people keep their
// position; new ones are appended with placeholder names; truncated people
// cascade: their items are unassigned, their pool memberships removed, and
// emptied pools deleted, unassigning those pools' items too.
type SetPeopleCount struct {
	Count int
	Max   int
}

func (SetPeopleCount) Name() string { return "set_people_count" }

func (c SetPeopleCount) apply(s State) (State, error) {
	bound := c.Max
	if bound <= 0 {
		bound = DefaultMaxPeople
	}
	count := c.Count
	if count < 0 {
		count = 0
	}
	if count > bound {
		count = bound
	}

	people := make([]models.Person, 0, count)
	for i := 0; i < count; i++ {
		if i < len(s.People) {
			people = append(people, s.People[i])
		} else {
			people = append(people, models.Person{
				ID:   uuid.NewString(),
				Name: fmt.Sprintf("Person %d", i+1),
			})
		}
	}
	s.People = people
	return s.reconcile(), nil
}

// RenamePerson sets a person's display name. An unknown id is a no-op.
type RenamePerson struct {
	ID         string
	PersonName string
}

func (RenamePerson) Name() string { return "rename_person" }

func (c RenamePerson) apply(s State) (State, error) {
	for i := range s.People {
		if s.People[i].ID == c.ID {
			s.People[i].Name = c.PersonName
			break
		}
	}
	return s, nil
}

// validPoolMembers checks that ids name at least two distinct existing
// people and returns the deduplicated membership.
func validPoolMembers(s State, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	members := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.personByID(id); !ok {
			return nil, errValidation("pool member %q does not exist", id)
		}
		members = append(members, id)
	}
	if len(members) < 2 {
		return nil, errValidation("a shared pool needs at least 2 people")
	}
	return members, nil
}

// CreatePool adds a custom shared pool of at least two existing people.
type CreatePool struct {
	PoolName  string
	PersonIDs []string
}

func (CreatePool) Name() string { return "create_pool" }

func (c CreatePool) apply(s State) (State, error) {
	members, err := validPoolMembers(s, c.PersonIDs)
	if err != nil {
		return s, err
	}
	s.Pools = append(s.Pools, models.CustomPool{
		ID:        uuid.NewString(),
		Name:      c.PoolName,
		PersonIDs: members,
	})
	return s, nil
}

// UpdatePool overwrites the provided fields of a pool. Membership changes
// are validated like creation. An unknown pool id is a no-op.
type UpdatePool struct {
	ID        string
	PoolName  *string
	PersonIDs *[]string
}

func (UpdatePool) Name() string { return "update_pool" }

func (c UpdatePool) apply(s State) (State, error) {
	for i := range s.Pools {
		if s.Pools[i].ID != c.ID {
			continue
		}
		if c.PersonIDs != nil {
			members, err := validPoolMembers(s, *c.PersonIDs)
			if err != nil {
				return s, err
			}
			s.Pools[i].PersonIDs = members
		}
		if c.PoolName != nil {
			s.Pools[i].Name = *c.PoolName
		}
		break
	}
	return s, nil
}

// DeletePool removes a pool and unassigns its items.
type DeletePool struct {
	ID string
}

func (DeletePool) Name() string { return "delete_pool" }

func (c DeletePool) apply(s State) (State, error) {
	pools := s.Pools[:0]
	for _, pool := range s.Pools {
		if pool.ID != c.ID {
			pools = append(pools, pool)
		}
	}
	s.Pools = pools
	for i, item := range s.Items {
		if item.AssignedTo.IsPool() && item.AssignedTo.ID == c.ID {
			s.Items[i].AssignedTo = models.NoTarget()
		}
	}
	return s, nil
}

// AssignItem points an item at a person, a pool, the everyone pool, or
// nothing. Targets referencing unknown people or pools are rejected. An
// unknown item id is a no-op.
type AssignItem struct {
	ItemID string
	Target models.AssignTarget
}

func (AssignItem) Name() string { return "assign_item" }

func (c AssignItem) apply(s State) (State, error) {
	switch c.Target.Kind {
	case models.TargetNone, models.TargetSharedAll:
	case models.TargetPerson:
		if _, ok := s.personByID(c.Target.ID); !ok {
			return s, errValidation("person %q does not exist", c.Target.ID)
		}
	case models.TargetPool:
		if !s.poolExists(c.Target.ID) {
			return s, errValidation("pool %q does not exist", c.Target.ID)
		}
	default:
		return s, errValidation("unknown assignment target kind %q", c.Target.Kind)
	}
	for i := range s.Items {
		if s.Items[i].ID == c.ItemID {
			s.Items[i].AssignedTo = c.Target
			break
		}
	}
	return s, nil
}

// ResetAssignments unassigns every item, leaving people, pools and charges
// intact. Idempotent.
type ResetAssignments struct{}

func (ResetAssignments) Name() string { return "reset_assignments" }

func (ResetAssignments) apply(s State) (State, error) {
	for i := range s.Items {
		s.Items[i].AssignedTo = models.NoTarget()
	}
	return s, nil
}

// ApplySuggestedAssignments assigns currently unassigned items by exact name
// match against an advisory itemName -> personName mapping. Entries naming
// an unknown person are dropped; already-assigned items are never touched.
//
// Matching is by item name, so duplicate-named unassigned items all receive
// the same suggested person. That is a documented product simplification,
// not a per-instance match.
//
// Applied is populated during dispatch with the number of items assigned.
type ApplySuggestedAssignments struct {
	Assignments map[string]string

	Applied int
}

func (*ApplySuggestedAssignments) Name() string { return "apply_suggested_assignments" }

func (c *ApplySuggestedAssignments) apply(s State) (State, error) {
	byName := make(map[string]string, len(s.People))
	for _, p := range s.People {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p.ID
		}
	}

	c.Applied = 0
	for i, item := range s.Items {
		if !item.AssignedTo.IsNone() {
			continue
		}
		personName, ok := c.Assignments[item.Name]
		if !ok {
			continue
		}
		personID, ok := byName[personName]
		if !ok {
			continue
		}
		s.Items[i].AssignedTo = models.PersonTarget(personID)
		c.Applied++
	}
	s.Notice = nil
	return s, nil
}

// RecordFailure stores an advisory message from a failed collaborator call
// without touching any bill data.
type RecordFailure struct {
	Source  string
	Message string
}

func (RecordFailure) Name() string { return "record_failure" }

func (c RecordFailure) apply(s State) (State, error) {
	s.Notice = &Notice{Source: c.Source, Message: c.Message}
	return s, nil
}

// LoadPeople replaces the people list with a previously persisted one. The
// shapes were validated on load; integrity against current items and pools
// is restored by the same reconcile pass as SetPeopleCount.
type LoadPeople struct {
	People []models.Person
}

func (LoadPeople) Name() string { return "load_people" }

func (c LoadPeople) apply(s State) (State, error) {
	people := make([]models.Person, len(c.People))
	copy(people, c.People)
	s.People = people
	return s.reconcile(), nil
}

// LoadCustomPools replaces the pool list with a previously persisted one.
type LoadCustomPools struct {
	Pools []models.CustomPool
}

func (LoadCustomPools) Name() string { return "load_custom_pools" }

func (c LoadCustomPools) apply(s State) (State, error) {
	pools := make([]models.CustomPool, 0, len(c.Pools))
	for _, pool := range c.Pools {
		ids := make([]string, len(pool.PersonIDs))
		copy(ids, pool.PersonIDs)
		pool.PersonIDs = ids
		pools = append(pools, pool)
	}
	s.Pools = pools
	return s.reconcile(), nil
}

// ResetAll returns to the empty initial state.
type ResetAll struct{}

func (ResetAll) Name() string { return "reset_all" }

func (ResetAll) apply(State) (State, error) {
	return initialState(), nil
}
