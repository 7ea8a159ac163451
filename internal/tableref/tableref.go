// Package tableref owns the replacement discipline for the shared rule
// table: readers always see a fully built table, and a live table is
// never mutated in place. Rebuilds publish a whole new reference.
package tableref

import (
	"sync/atomic"

	"uatier/internal/rules"
)

// Holder publishes an immutable rule table to concurrent readers.
type Holder struct {
	current atomic.Pointer[rules.Table]
}

// NewHolder creates a holder serving the given table.
func NewHolder(t rules.Table) *Holder {
	h := &Holder{}
	h.current.Store(&t)
	return h
}

// Load returns the currently published table. Any number of Load calls
// may run concurrently with a Replace; each sees either the old table or
// the new one, never a partial state.
func (h *Holder) Load() rules.Table {
	return *h.current.Load()
}

// Replace atomically publishes a fully built replacement table.
func (h *Holder) Replace(t rules.Table) {
	h.current.Store(&t)
}

// Reloader re-reads a rules file on demand and publishes the result.
type Reloader struct {
	path   string
	holder *Holder
}

// NewReloader creates a reloader that publishes into the given holder.
func NewReloader(path string, holder *Holder) *Reloader {
	return &Reloader{path: path, holder: holder}
}

// Reload parses the rules file and publishes the new table. On error the
// previously published table keeps serving.
func (r *Reloader) Reload() error {
	entries, err := rules.LoadFromPath(r.path)
	if err != nil {
		return err
	}
	r.holder.Replace(rules.NewTable(entries))
	return nil
}
