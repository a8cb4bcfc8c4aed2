package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Draft is a withdrawal ready to submit to the ledger. It is built once,
// submitted in a single create call, and discarded on failure; no partially
// created transaction can exist.
type Draft struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string

	// SourceID is the asset account the money leaves.
	SourceID string

	// Destination receives the money. An empty ID lets the ledger match or
	// create the account by name.
	Destination Candidate

	// Category is optional; nil records the transaction without one.
	Category *Candidate

	Notes string
}

// Transaction is a stored transaction as confirmed by the ledger.
type Transaction struct {
	ID          string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Destination string
	Category    string
}

// Summary renders the one-line form shown after creation and by /last, for
// example "23.12 € Coffee, milk, sugar, dest=Edeka, cat=Food, id=1001".
// A missing category shows as "-".
func (t Transaction) Summary() string {
	amount := t.Amount.StringFixed(2)
	if t.Currency != "" {
		amount += " " + t.Currency
	}
	category := t.Category
	if category == "" {
		category = "-"
	}
	return fmt.Sprintf("%s %s, dest=%s, cat=%s, id=%s",
		amount, t.Description, t.Destination, category, t.ID)
}
