package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billease/billease/internal/models"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// withPeople dispatches SetPeopleCount and returns the created people.
func withPeople(t *testing.T, st *Store, count int) []models.Person {
	t.Helper()
	require.NoError(t, st.Dispatch(SetPeopleCount{Count: count}))
	people := st.Snapshot().People
	require.Len(t, people, count)
	return people
}

func TestSetItemsFromExtractionQuantityExpansion(t *testing.T) {
	t.Run("unit price mode", func(t *testing.T) {
		st := New()
		err := st.Dispatch(SetItemsFromExtraction{
			Lines: []ExtractedLine{{Name: "Fries", Price: d(5), Quantity: 2}},
		})
		require.NoError(t, err)

		items := st.Snapshot().Items
		require.Len(t, items, 2)
		for _, item := range items {
			assert.Equal(t, "Fries", item.Name)
			assert.True(t, item.Price.Equal(d(5)), "price = %s", item.Price)
			assert.True(t, item.AssignedTo.IsNone())
		}
	})

	t.Run("total price mode derives unit price", func(t *testing.T) {
		st := New()
		require.NoError(t, st.Dispatch(SetPriceMode{Mode: models.PriceModeTotal}))
		err := st.Dispatch(SetItemsFromExtraction{
			Lines: []ExtractedLine{{Name: "Fries", Price: d(5), Quantity: 2}},
		})
		require.NoError(t, err)

		items := st.Snapshot().Items
		require.Len(t, items, 2)
		for _, item := range items {
			assert.True(t, item.Price.Equal(d(2.5)), "price = %s", item.Price)
		}
	})

	t.Run("missing quantity defaults to one", func(t *testing.T) {
		st := New()
		err := st.Dispatch(SetItemsFromExtraction{
			Lines: []ExtractedLine{{Name: "Cola", Price: d(3)}},
		})
		require.NoError(t, err)
		require.Len(t, st.Snapshot().Items, 1)
	})

	t.Run("replaces prior items and charges", func(t *testing.T) {
		st := New()
		require.NoError(t, st.Dispatch(AddItem{ItemName: "Old", Price: d(1)}))
		require.NoError(t, st.Dispatch(SetCharge{Field: models.ChargeVAT, Value: d(9)}))

		err := st.Dispatch(SetItemsFromExtraction{
			Lines:   []ExtractedLine{{Name: "New", Price: d(2)}},
			Charges: models.BillCharges{Subtotal: d(2)},
		})
		require.NoError(t, err)

		s := st.Snapshot()
		require.Len(t, s.Items, 1)
		assert.Equal(t, "New", s.Items[0].Name)
		assert.True(t, s.Charges.VAT.IsZero())
		assert.True(t, s.Charges.Subtotal.Equal(d(2)))
	})
}

func TestItemCRUDAndCoercion(t *testing.T) {
	st := New()

	require.NoError(t, st.Dispatch(AddItem{ItemName: "Soup", Price: d(-4)}))
	items := st.Snapshot().Items
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.IsZero(), "negative price must coerce to 0")

	newName := "Broth"
	newPrice := d(6)
	require.NoError(t, st.Dispatch(UpdateItem{ID: items[0].ID, ItemName: &newName, Price: &newPrice}))
	updated := st.Snapshot().Items[0]
	assert.Equal(t, "Broth", updated.Name)
	assert.True(t, updated.Price.Equal(d(6)))

	// Unknown ids are no-ops, not errors.
	require.NoError(t, st.Dispatch(UpdateItem{ID: "nope", ItemName: &newName}))
	require.NoError(t, st.Dispatch(DeleteItem{ID: "nope"}))
	require.Len(t, st.Snapshot().Items, 1)

	require.NoError(t, st.Dispatch(DeleteItem{ID: items[0].ID}))
	assert.Empty(t, st.Snapshot().Items)
}

func TestPriceFromFloatNormalizesInvalidInput(t *testing.T) {
	assert.True(t, PriceFromFloat(-3).IsZero())
	nan := 0.0
	nan = nan / nan
	assert.True(t, PriceFromFloat(nan).IsZero())
	assert.True(t, PriceFromFloat(12.34).Equal(d(12.34)))
}

func TestSetCharge(t *testing.T) {
	st := New()
	require.NoError(t, st.Dispatch(SetCharge{Field: models.ChargeDelivery, Value: d(3)}))
	assert.True(t, st.Snapshot().Charges.Delivery.Equal(d(3)))

	// Negative values normalize to zero.
	require.NoError(t, st.Dispatch(SetCharge{Field: models.ChargeVAT, Value: d(-1)}))
	assert.True(t, st.Snapshot().Charges.VAT.IsZero())

	err := st.Dispatch(SetCharge{Field: "tip", Value: d(1)})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestSetPeopleCount(t *testing.T) {
	st := New()
	people := withPeople(t, st, 3)
	assert.Equal(t, "Person 1", people[0].Name)
	assert.Equal(t, "Person 3", people[2].Name)

	// Growing preserves existing people by position.
	require.NoError(t, st.Dispatch(RenamePerson{ID: people[0].ID, PersonName: "Alice"}))
	grown := withPeople(t, st, 5)
	assert.Equal(t, people[0].ID, grown[0].ID)
	assert.Equal(t, "Alice", grown[0].Name)
	assert.Equal(t, "Person 5", grown[4].Name)

	// Count clamps into [0, max].
	require.NoError(t, st.Dispatch(SetPeopleCount{Count: 99, Max: 10}))
	assert.Len(t, st.Snapshot().People, 10)
	require.NoError(t, st.Dispatch(SetPeopleCount{Count: -2}))
	assert.Empty(t, st.Snapshot().People)
}

func TestShrinkCascadesUnassignmentAndPoolPruning(t *testing.T) {
	st := New()
	people := withPeople(t, st, 4)

	require.NoError(t, st.Dispatch(CreatePool{
		PoolName:  "Back table",
		PersonIDs: []string{people[2].ID, people[3].ID},
	}))
	pool := st.Snapshot().Pools[0]

	require.NoError(t, st.Dispatch(AddItem{ItemName: "Steak", Price: d(30)}))
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Wine", Price: d(20)}))
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Bread", Price: d(5)}))
	items := st.Snapshot().Items
	require.NoError(t, st.Dispatch(AssignItem{ItemID: items[0].ID, Target: models.PersonTarget(people[3].ID)}))
	require.NoError(t, st.Dispatch(AssignItem{ItemID: items[1].ID, Target: models.PoolTarget(pool.ID)}))
	require.NoError(t, st.Dispatch(AssignItem{ItemID: items[2].ID, Target: models.SharedAllTarget()}))

	// Shrinking to 2 removes both pool members: the item assigned to the
	// dropped person, the pool itself, and the pool's item must all be
	// cleaned up in this single transition.
	require.NoError(t, st.Dispatch(SetPeopleCount{Count: 2}))
	s := st.Snapshot()
	assert.Empty(t, s.Pools)
	assert.True(t, s.Items[0].AssignedTo.IsNone(), "item of removed person")
	assert.True(t, s.Items[1].AssignedTo.IsNone(), "item of deleted pool")
	assert.True(t, s.Items[2].AssignedTo.IsSharedAll(), "shared target survives")
}

func TestShrinkLeavesPartiallyPrunedPool(t *testing.T) {
	st := New()
	people := withPeople(t, st, 3)
	require.NoError(t, st.Dispatch(CreatePool{
		PoolName:  "Pair",
		PersonIDs: []string{people[0].ID, people[2].ID},
	}))

	// Dropping only person 3 leaves a single-member pool; only empty pools
	// are deleted.
	require.NoError(t, st.Dispatch(SetPeopleCount{Count: 2}))
	pools := st.Snapshot().Pools
	require.Len(t, pools, 1)
	assert.Equal(t, []string{people[0].ID}, pools[0].PersonIDs)
}

func TestCascadeIntegrityInvariant(t *testing.T) {
	// After any SetPeopleCount, every non-shared assignment must reference
	// an existing person or pool, and every pool membership an existing
	// person.
	st := New()
	people := withPeople(t, st, 5)
	require.NoError(t, st.Dispatch(CreatePool{
		PoolName:  "Trio",
		PersonIDs: []string{people[1].ID, people[2].ID, people[4].ID},
	}))
	pool := st.Snapshot().Pools[0]
	for i, p := range people {
		require.NoError(t, st.Dispatch(AddItem{ItemName: "Dish", Price: d(float64(i + 1))}))
		items := st.Snapshot().Items
		require.NoError(t, st.Dispatch(AssignItem{ItemID: items[len(items)-1].ID, Target: models.PersonTarget(p.ID)}))
	}
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Shared dish", Price: d(9)}))
	items := st.Snapshot().Items
	require.NoError(t, st.Dispatch(AssignItem{ItemID: items[len(items)-1].ID, Target: models.PoolTarget(pool.ID)}))

	for _, count := range []int{4, 2, 1, 0} {
		require.NoError(t, st.Dispatch(SetPeopleCount{Count: count}))
		s := st.Snapshot()

		personIDs := map[string]bool{}
		for _, p := range s.People {
			personIDs[p.ID] = true
		}
		poolIDs := map[string]bool{}
		for _, pl := range s.Pools {
			poolIDs[pl.ID] = true
			for _, member := range pl.PersonIDs {
				assert.True(t, personIDs[member], "pool member %s must exist at count %d", member, count)
			}
		}
		for _, item := range s.Items {
			switch item.AssignedTo.Kind {
			case models.TargetPerson:
				assert.True(t, personIDs[item.AssignedTo.ID], "person target at count %d", count)
			case models.TargetPool:
				assert.True(t, poolIDs[item.AssignedTo.ID], "pool target at count %d", count)
			}
		}
	}
}

func TestPoolValidation(t *testing.T) {
	st := New()
	people := withPeople(t, st, 2)

	err := st.Dispatch(CreatePool{PoolName: "Solo", PersonIDs: []string{people[0].ID}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = st.Dispatch(CreatePool{PoolName: "Ghost", PersonIDs: []string{people[0].ID, "missing"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	// Duplicate ids collapse and must still leave two distinct members.
	err = st.Dispatch(CreatePool{PoolName: "Dup", PersonIDs: []string{people[0].ID, people[0].ID}})
	require.Error(t, err)

	require.NoError(t, st.Dispatch(CreatePool{PoolName: "Pair", PersonIDs: []string{people[0].ID, people[1].ID}}))
	assert.Len(t, st.Snapshot().Pools, 1)
}

func TestDeletePoolUnassignsItems(t *testing.T) {
	st := New()
	people := withPeople(t, st, 2)
	require.NoError(t, st.Dispatch(CreatePool{PoolName: "Pair", PersonIDs: []string{people[0].ID, people[1].ID}}))
	pool := st.Snapshot().Pools[0]

	require.NoError(t, st.Dispatch(AddItem{ItemName: "Nachos", Price: d(11)}))
	item := st.Snapshot().Items[0]
	require.NoError(t, st.Dispatch(AssignItem{ItemID: item.ID, Target: models.PoolTarget(pool.ID)}))

	require.NoError(t, st.Dispatch(DeletePool{ID: pool.ID}))
	s := st.Snapshot()
	assert.Empty(t, s.Pools)
	assert.True(t, s.Items[0].AssignedTo.IsNone())
}

func TestAssignItemRejectsUnknownTargets(t *testing.T) {
	st := New()
	withPeople(t, st, 1)
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Tea", Price: d(2)}))
	item := st.Snapshot().Items[0]

	err := st.Dispatch(AssignItem{ItemID: item.ID, Target: models.PersonTarget("missing")})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = st.Dispatch(AssignItem{ItemID: item.ID, Target: models.PoolTarget("missing")})
	require.Error(t, err)

	err = st.Dispatch(AssignItem{ItemID: item.ID, Target: models.AssignTarget{Kind: "table"}})
	require.Error(t, err)

	// The failed commands left the item untouched.
	assert.True(t, st.Snapshot().Items[0].AssignedTo.IsNone())
}

func TestResetAssignmentsIsIdempotent(t *testing.T) {
	st := New()
	people := withPeople(t, st, 2)
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Pie", Price: d(8)}))
	item := st.Snapshot().Items[0]
	require.NoError(t, st.Dispatch(AssignItem{ItemID: item.ID, Target: models.PersonTarget(people[0].ID)}))

	require.NoError(t, st.Dispatch(ResetAssignments{}))
	once := st.Snapshot()
	require.NoError(t, st.Dispatch(ResetAssignments{}))
	twice := st.Snapshot()

	assert.Equal(t, once, twice)
	assert.True(t, once.Items[0].AssignedTo.IsNone())
	assert.Len(t, once.People, 2, "people survive assignment reset")
}

func TestApplySuggestedAssignments(t *testing.T) {
	st := New()
	people := withPeople(t, st, 2)
	require.NoError(t, st.Dispatch(RenamePerson{ID: people[0].ID, PersonName: "Alice"}))
	require.NoError(t, st.Dispatch(RenamePerson{ID: people[1].ID, PersonName: "Bob"}))

	require.NoError(t, st.Dispatch(AddItem{ItemName: "Fries", Price: d(5)}))
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Fries", Price: d(5)}))
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Cola", Price: d(3)}))
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Cake", Price: d(7)}))

	// Pre-assign the cake; suggestions must never touch assigned items.
	cake := st.Snapshot().Items[3]
	require.NoError(t, st.Dispatch(AssignItem{ItemID: cake.ID, Target: models.PersonTarget(people[1].ID)}))

	cmd := &ApplySuggestedAssignments{Assignments: map[string]string{
		"Fries": "Alice",
		"Cola":  "Charlie", // unknown person: dropped, others still applied
		"Cake":  "Alice",
	}}
	require.NoError(t, st.Dispatch(cmd))
	assert.Equal(t, 2, cmd.Applied)

	s := st.Snapshot()
	// Both duplicate-named fries go to Alice; that is the documented
	// name-level simplification.
	assert.Equal(t, models.PersonTarget(people[0].ID), s.Items[0].AssignedTo)
	assert.Equal(t, models.PersonTarget(people[0].ID), s.Items[1].AssignedTo)
	assert.True(t, s.Items[2].AssignedTo.IsNone(), "unknown person entry dropped")
	assert.Equal(t, models.PersonTarget(people[1].ID), s.Items[3].AssignedTo, "already-assigned item untouched")
}

func TestRecordFailureLeavesBillDataAlone(t *testing.T) {
	st := New()
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Soup", Price: d(4)}))
	before := st.Snapshot()

	require.NoError(t, st.Dispatch(RecordFailure{Source: SourceExtraction, Message: "could not read the bill"}))
	s := st.Snapshot()
	require.NotNil(t, s.Notice)
	assert.Equal(t, SourceExtraction, s.Notice.Source)
	assert.Equal(t, before.Items, s.Items)
	assert.Equal(t, before.Charges, s.Charges)
}

func TestLoadCommandsReconcile(t *testing.T) {
	st := New()
	require.NoError(t, st.Dispatch(LoadPeople{People: []models.Person{
		{ID: "p1", Name: "Alice"},
		{ID: "p2", Name: "Bob"},
	}}))

	// A loaded pool referencing an unknown person keeps only valid members;
	// one referencing nobody known disappears entirely.
	require.NoError(t, st.Dispatch(LoadCustomPools{Pools: []models.CustomPool{
		{ID: "g1", Name: "Pair", PersonIDs: []string{"p1", "p2", "ghost"}},
		{ID: "g2", Name: "Ghosts", PersonIDs: []string{"ghost"}},
	}}))

	s := st.Snapshot()
	require.Len(t, s.Pools, 1)
	assert.Equal(t, []string{"p1", "p2"}, s.Pools[0].PersonIDs)
	assert.Len(t, s.People, 2)
}

func TestResetAll(t *testing.T) {
	st := New()
	withPeople(t, st, 3)
	require.NoError(t, st.Dispatch(AddItem{ItemName: "Pizza", Price: d(10)}))
	require.NoError(t, st.Dispatch(SetCharge{Field: models.ChargeVAT, Value: d(2)}))
	require.NoError(t, st.Dispatch(SetPriceMode{Mode: models.PriceModeTotal}))

	require.NoError(t, st.Dispatch(ResetAll{}))
	s := st.Snapshot()
	assert.Empty(t, s.Items)
	assert.Empty(t, s.People)
	assert.Empty(t, s.Pools)
	assert.True(t, s.Charges.GrandTotal().IsZero())
	assert.Equal(t, models.PriceModeUnit, s.PriceMode)
}

func TestFailedCommandKeepsPriorState(t *testing.T) {
	st := New()
	people := withPeople(t, st, 2)
	require.NoError(t, st.Dispatch(CreatePool{PoolName: "Pair", PersonIDs: []string{people[0].ID, people[1].ID}}))
	before := st.Snapshot()

	ids := []string{people[0].ID}
	err := st.Dispatch(UpdatePool{ID: before.Pools[0].ID, PersonIDs: &ids})
	require.Error(t, err)
	assert.Equal(t, before, st.Snapshot())
}
