package firefly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/jwiebalk/fireflybot/ledger"
)

func TestListCategoriesFollowsPagination(t *testing.T) {
	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/categories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"data":[{"id":"3","attributes":{"name":"Transport"}}],"links":{}}`)
			return
		}
		fmt.Fprintf(w,
			`{"data":[{"id":"1","attributes":{"name":"Food"}},{"id":"2","attributes":{"name":"Household"}}],"links":{"next":%q}}`,
			srv.URL+"/api/v1/categories?page=2")
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	got, err := client.ListCategories(context.Background())
	assert.NoError(t, err)

	want := []ledger.Candidate{
		{ID: "1", Name: "Food"},
		{ID: "2", Name: "Household"},
		{ID: "3", Name: "Transport"},
	}
	assert.Equal(t, want, got)
}

func TestListExpenseAccountsFiltersByType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "expense", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"data":[{"id":"12","attributes":{"name":"Edeka"}}],"links":{}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	got, err := client.ListExpenseAccounts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []ledger.Candidate{{ID: "12", Name: "Edeka"}}, got)
}

func TestFindAssetAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asset", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"data":[{"id":"1","attributes":{"name":"Cash"}},{"id":"2","attributes":{"name":"Checking"}}],"links":{}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")

	t.Run("matches case insensitively", func(t *testing.T) {
		got, err := client.FindAssetAccount(context.Background(), "cash")
		assert.NoError(t, err)
		assert.Equal(t, ledger.Candidate{ID: "1", Name: "Cash"}, got)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := client.FindAssetAccount(context.Background(), "Wallet")
		assert.IsError(t, err, ErrAccountNotFound)
	})
}

func TestCreateTransaction(t *testing.T) {
	var got transactionRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"data":{"id":"1001","attributes":{"transactions":[{"amount":"23.120000000000","currency_symbol":"€","description":"Coffee, milk","destination_name":"Edeka","category_name":"Food"}]}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	date := time.Date(2026, 8, 22, 12, 30, 0, 0, time.UTC)

	tx, err := client.CreateTransaction(context.Background(), ledger.Draft{
		Date:        date,
		Amount:      decimal.RequireFromString("23.12"),
		Description: "Coffee, milk",
		SourceID:    "7",
		Destination: ledger.Candidate{ID: "12", Name: "Edeka"},
		Category:    &ledger.Candidate{ID: "1", Name: "Food"},
		Notes:       "Added via Telegram",
	})
	assert.NoError(t, err)

	assert.True(t, got.ApplyRules, "server-side rules must be applied")
	assert.False(t, got.ErrorIfDuplicateHash)
	assert.Equal(t, 1, len(got.Transactions))

	split := got.Transactions[0]
	assert.Equal(t, "withdrawal", split.Type)
	assert.Equal(t, date.Format(time.RFC3339), split.Date)
	assert.Equal(t, "23.12", split.Amount)
	assert.Equal(t, "Coffee, milk", split.Description)
	assert.Equal(t, "7", split.SourceID)
	assert.Equal(t, "12", split.DestinationID)
	assert.Equal(t, "", split.DestinationName)
	assert.Equal(t, "1", split.CategoryID)
	assert.Equal(t, "Added via Telegram", split.Notes)

	assert.Equal(t, "1001", tx.ID)
	assert.Equal(t, "23.12", tx.Amount.StringFixed(2))
	assert.Equal(t, "€", tx.Currency)
	assert.Equal(t, "Edeka", tx.Destination)
	assert.Equal(t, "Food", tx.Category)
}

func TestCreateTransactionFallsBackToDestinationName(t *testing.T) {
	var got transactionRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"data":{"id":"1002","attributes":{"transactions":[{"amount":"5.00","description":"Snack","destination_name":"Unknown"}]}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")

	tx, err := client.CreateTransaction(context.Background(), ledger.Draft{
		Date:        time.Now(),
		Amount:      decimal.RequireFromString("5"),
		Description: "Snack",
		SourceID:    "7",
		Destination: ledger.Candidate{Name: "Unknown"},
	})
	assert.NoError(t, err)

	split := got.Transactions[0]
	assert.Equal(t, "", split.DestinationID)
	assert.Equal(t, "Unknown", split.DestinationName)
	assert.Equal(t, "", split.CategoryID)

	assert.Equal(t, "1002", tx.ID)
	assert.Equal(t, "", tx.Category)
}

func TestCreateCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/categories", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Treats", body["name"])
		fmt.Fprint(w, `{"data":{"id":"90","attributes":{"name":"Treats"}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	got, err := client.CreateCategory(context.Background(), "Treats")
	assert.NoError(t, err)
	assert.Equal(t, ledger.Candidate{ID: "90", Name: "Treats"}, got)
}

func TestCreateExpenseAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Corner Shop", body["name"])
		assert.Equal(t, "expense", body["type"])
		fmt.Fprint(w, `{"data":{"id":"91","attributes":{"name":"Corner Shop"}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	got, err := client.CreateExpenseAccount(context.Background(), "Corner Shop")
	assert.NoError(t, err)
	assert.Equal(t, ledger.Candidate{ID: "91", Name: "Corner Shop"}, got)
}

func TestDeleteTransaction(t *testing.T) {
	deleted := false

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/transactions/1001", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	assert.NoError(t, client.DeleteTransaction(context.Background(), "1001"))
	assert.True(t, deleted)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"No destination account given."}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	_, err := client.CreateTransaction(context.Background(), ledger.Draft{
		Date:        time.Now(),
		Amount:      decimal.RequireFromString("1"),
		Description: "x",
		Destination: ledger.Candidate{Name: "Unknown"},
	})

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "No destination account given.", apiErr.Message)
}

func TestAPIErrorWithoutJSONBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/categories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "secret")
	_, err := client.ListCategories(context.Background())

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
