package store

import "sync"

// Store serializes command application over a single bill state. Commands
// apply to a private copy of the state (copy-on-write), so readers always
// see either the state before a command or the state after it, never a
// partial mutation. Multiple independent Stores can coexist; there is no
// package-level instance.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates a store holding the empty initial state.
func New() *Store {
	return &Store{state: initialState()}
}

// Dispatch applies one command atomically. On error the prior state is kept;
// a *ValidationError means the payload was rejected and should be surfaced
// to the user.
func (st *Store) Dispatch(cmd Command) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := cmd.apply(st.state.clone())
	if err != nil {
		return err
	}
	st.state = next
	return nil
}

// Snapshot returns a deep copy of the current state, safe to read while
// further commands are dispatched.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}
