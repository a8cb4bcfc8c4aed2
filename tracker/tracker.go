// Package tracker remembers the most recently created transaction, backing
// /last and /undo.
package tracker

// Record points at the last created transaction.
type Record struct {
	ID      string
	Summary string
}

// Tracker is a single-slot store: every successful creation overwrites the
// slot and a successful undo empties it. One slot per process is
// deliberate; the bot serves a single user and supports exactly one
// pending undo. The zero value is empty and ready to use.
//
// Tracker is not safe for concurrent use. The transport processes updates
// one at a time, which is the only serialization it relies on.
type Tracker struct {
	rec *Record
}

// Set stores the transaction, replacing any previous record. Call it only
// after the ledger confirms creation.
func (t *Tracker) Set(id, summary string) {
	t.rec = &Record{ID: id, Summary: summary}
}

// Peek returns the current record without changing state.
func (t *Tracker) Peek() (Record, bool) {
	if t.rec == nil {
		return Record{}, false
	}
	return *t.rec, true
}

// Clear empties the slot. Call it only after the ledger confirms deletion.
func (t *Tracker) Clear() {
	t.rec = nil
}
