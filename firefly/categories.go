package firefly

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwiebalk/fireflybot/ledger"
)

// ListCategories returns all categories in server order.
func (c *Client) ListCategories(ctx context.Context) ([]ledger.Candidate, error) {
	var out []ledger.Candidate
	err := c.collect(ctx, c.endpoint("categories", nil), func(r resource) error {
		cand, err := r.candidate()
		if err != nil {
			return err
		}
		out = append(out, cand)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// CreateCategory creates a category with the given name.
func (c *Client) CreateCategory(ctx context.Context, name string) (ledger.Candidate, error) {
	body := map[string]string{"name": name}

	var doc document
	if err := c.do(ctx, http.MethodPost, c.endpoint("categories", nil), body, &doc); err != nil {
		return ledger.Candidate{}, fmt.Errorf("create category %q: %w", name, err)
	}
	return doc.Data.candidate()
}
