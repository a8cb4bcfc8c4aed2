package firefly

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwiebalk/fireflybot/ledger"
)

// transactionSplit is the single split the bot submits and reads back.
type transactionSplit struct {
	Type            string `json:"type,omitempty"`
	Date            string `json:"date,omitempty"`
	Amount          string `json:"amount,omitempty"`
	Description     string `json:"description,omitempty"`
	SourceID        string `json:"source_id,omitempty"`
	DestinationID   string `json:"destination_id,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
	CategoryID      string `json:"category_id,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	CurrencySymbol  string `json:"currency_symbol,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type transactionRequest struct {
	ErrorIfDuplicateHash bool               `json:"error_if_duplicate_hash"`
	ApplyRules           bool               `json:"apply_rules"`
	Transactions         []transactionSplit `json:"transactions"`
}

type transactionDocument struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Transactions []transactionSplit `json:"transactions"`
		} `json:"attributes"`
	} `json:"data"`
}

// CreateTransaction submits the draft as a single-split withdrawal and
// returns the stored transaction. Server-side rules are applied, so the
// stored category or destination may differ from the draft.
func (c *Client) CreateTransaction(ctx context.Context, draft ledger.Draft) (ledger.Transaction, error) {
	split := transactionSplit{
		Type:        "withdrawal",
		Date:        draft.Date.Format(time.RFC3339),
		Amount:      draft.Amount.StringFixed(2),
		Description: draft.Description,
		SourceID:    draft.SourceID,
		Notes:       draft.Notes,
	}
	if draft.Destination.ID != "" {
		split.DestinationID = draft.Destination.ID
	} else {
		split.DestinationName = draft.Destination.Name
	}
	if draft.Category != nil {
		split.CategoryID = draft.Category.ID
	}

	req := transactionRequest{
		ApplyRules:   true,
		Transactions: []transactionSplit{split},
	}

	var doc transactionDocument
	if err := c.do(ctx, http.MethodPost, c.endpoint("transactions", nil), req, &doc); err != nil {
		return ledger.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return storedTransaction(doc)
}

// storedTransaction flattens the response document into the domain type.
func storedTransaction(doc transactionDocument) (ledger.Transaction, error) {
	tx := ledger.Transaction{ID: doc.Data.ID}

	splits := doc.Data.Attributes.Transactions
	if len(splits) == 0 {
		return tx, fmt.Errorf("transaction %s: response carries no splits", tx.ID)
	}
	split := splits[0]

	amount, err := decimal.NewFromString(split.Amount)
	if err != nil {
		return tx, fmt.Errorf("transaction %s: bad amount %q: %w", tx.ID, split.Amount, err)
	}
	tx.Amount = amount
	tx.Currency = split.CurrencySymbol
	tx.Description = split.Description
	tx.Destination = split.DestinationName
	tx.Category = split.CategoryName
	return tx, nil
}

// DeleteTransaction removes a transaction permanently.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	rawURL := c.endpoint("transactions/"+url.PathEscape(id), nil)
	if err := c.do(ctx, http.MethodDelete, rawURL, nil, nil); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}
