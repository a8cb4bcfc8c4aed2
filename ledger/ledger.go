// Package ledger holds the domain types shared between the message engine
// and the Firefly III gateway: matchable entities, transaction drafts, and
// stored transactions. All monetary amounts use decimal arithmetic to avoid
// floating point precision issues.
package ledger

// Candidate is a named entity, a category or an account, eligible for
// fuzzy matching. ID is the ledger's opaque identifier; an entity that
// does not exist yet carries an empty ID.
type Candidate struct {
	ID   string
	Name string
}
