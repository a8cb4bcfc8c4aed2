package firefly

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jwiebalk/fireflybot/ledger"
)

// ErrAccountNotFound reports a FindAssetAccount miss.
var ErrAccountNotFound = errors.New("asset account not found")

// ListAssetAccounts returns all asset accounts in server order.
func (c *Client) ListAssetAccounts(ctx context.Context) ([]ledger.Candidate, error) {
	return c.listAccounts(ctx, "asset")
}

// ListExpenseAccounts returns all expense accounts in server order. These
// are the destination candidates for withdrawals.
func (c *Client) ListExpenseAccounts(ctx context.Context) ([]ledger.Candidate, error) {
	return c.listAccounts(ctx, "expense")
}

func (c *Client) listAccounts(ctx context.Context, accountType string) ([]ledger.Candidate, error) {
	query := url.Values{"type": {accountType}}

	var out []ledger.Candidate
	err := c.collect(ctx, c.endpoint("accounts", query), func(r resource) error {
		cand, err := r.candidate()
		if err != nil {
			return err
		}
		out = append(out, cand)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s accounts: %w", accountType, err)
	}
	return out, nil
}

// FindAssetAccount returns the asset account with the given name, matched
// case-insensitively. The bot resolves its configured source account this
// way once at startup.
func (c *Client) FindAssetAccount(ctx context.Context, name string) (ledger.Candidate, error) {
	accounts, err := c.ListAssetAccounts(ctx)
	if err != nil {
		return ledger.Candidate{}, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return ledger.Candidate{}, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
}

// CreateExpenseAccount creates an expense account with the given name.
func (c *Client) CreateExpenseAccount(ctx context.Context, name string) (ledger.Candidate, error) {
	body := map[string]string{"name": name, "type": "expense"}

	var doc document
	if err := c.do(ctx, http.MethodPost, c.endpoint("accounts", nil), body, &doc); err != nil {
		return ledger.Candidate{}, fmt.Errorf("create expense account %q: %w", name, err)
	}
	return doc.Data.candidate()
}
