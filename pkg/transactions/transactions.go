// Package transactions lists, fetches and submits ledger transactions.
//
// Listing is scoped by a Context: a block, an account, a hotspot or a
// validator. Each scope maps to its own endpoint:
//
//	Block (height)  /blocks/{height}/transactions        cursor
//	Block (hash)    /blocks/hash/{hash}/transactions     cursor
//	Account         /accounts/{address}/activity         cursor, filter_types
//	Hotspot         /hotspots/{address}/activity         cursor, filter_types
//	Validator       /validators/{address}/activity       cursor, filter_types
//
// When a block carries both height and hash, height wins.
package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/helium-client/pkg/client"
	"github.com/Sternrassler/helium-client/pkg/models"
	"github.com/Sternrassler/helium-client/pkg/pagination"
)

var (
	// ErrUnsupportedContext is returned when the scope is nil or not one the
	// operation supports.
	ErrUnsupportedContext = errors.New("unsupported transaction context")

	// ErrInvalidBlockReference is returned for a block with neither height nor hash.
	ErrInvalidBlockReference = errors.New("block must have either height or hash")
)

// Transport is the HTTP collaborator. *client.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) (*client.Response, error)
	Post(ctx context.Context, path string, body any) (*client.Response, error)
}

// ListParams are the optional cursor and type filter of a listing.
type ListParams = pagination.Params

// Page is one page of transactions listed under a Context.
type Page = pagination.Paginator[models.Transaction, Context]

// Transactions is the transaction resource.
type Transactions struct {
	transport Transport
}

// New creates the transaction resource over transport.
func New(transport Transport) *Transactions {
	return &Transactions{transport: transport}
}

// List fetches the first page of transactions for scope. The returned page
// fetches further pages through this resource.
func (t *Transactions) List(ctx context.Context, scope Context, params ListParams) (*Page, error) {
	path, query, err := listRequest(scope, params)
	if err != nil {
		return nil, err
	}

	resp, err := t.transport.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &records); err != nil {
			return nil, fmt.Errorf("decode transaction page: %w", err)
		}
	}

	items := make([]models.Transaction, 0, len(records))
	for _, record := range records {
		txn, err := models.FromJSON(record)
		if err != nil {
			return nil, err
		}
		items = append(items, txn)
	}

	return pagination.New[models.Transaction, Context](t, items, pagination.Continuation[Context]{
		Scope:       scope,
		FilterTypes: params.FilterTypes,
		Cursor:      resp.Cursor,
	}), nil
}

// Counts returns per-kind activity counts. Only validator scopes support it.
func (t *Transactions) Counts(ctx context.Context, scope Context) (*models.Counts, error) {
	validator, ok := deref(scope).(ValidatorContext)
	if !ok {
		return nil, fmt.Errorf("%w: counts requires a validator, got %T", ErrUnsupportedContext, scope)
	}

	resp, err := t.transport.Get(ctx, "/validators/"+url.PathEscape(validator.Address)+"/activity/counts", nil)
	if err != nil {
		return nil, err
	}

	var counts models.Counts
	if err := json.Unmarshal(resp.Data, &counts); err != nil {
		return nil, fmt.Errorf("decode activity counts: %w", err)
	}
	return &counts, nil
}

// Submit posts a signed, encoded transaction.
func (t *Transactions) Submit(ctx context.Context, txn string) (*models.PendingTransaction, error) {
	resp, err := t.transport.Post(ctx, "/pending_transactions", map[string]string{"txn": txn})
	if err != nil {
		return nil, err
	}

	var pending models.PendingTransaction
	if err := json.Unmarshal(resp.Data, &pending); err != nil {
		return nil, fmt.Errorf("decode pending transaction: %w", err)
	}
	return &pending, nil
}

// Get fetches one transaction by hash. A missing hash surfaces as the
// transport's not-found error.
func (t *Transactions) Get(ctx context.Context, hash string) (models.Transaction, error) {
	resp, err := t.transport.Get(ctx, "/transactions/"+url.PathEscape(hash), nil)
	if err != nil {
		return nil, err
	}
	return models.FromJSON(resp.Data)
}

// listRequest resolves the endpoint and query for a scope.
func listRequest(scope Context, params ListParams) (string, url.Values, error) {
	query := url.Values{}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var path string
	switch c := deref(scope).(type) {
	case BlockContext:
		return blockRequest(c.Block, query)
	case AccountContext:
		path = "/accounts/" + url.PathEscape(c.Address) + "/activity"
	case HotspotContext:
		path = "/hotspots/" + url.PathEscape(c.Address) + "/activity"
	case ValidatorContext:
		path = "/validators/" + url.PathEscape(c.Address) + "/activity"
	default:
		return "", nil, ErrUnsupportedContext
	}

	if len(params.FilterTypes) > 0 {
		query.Set("filter_types", strings.Join(params.FilterTypes, ","))
	}
	return path, query, nil
}

// blockRequest prefers height over hash.
func blockRequest(block models.Block, query url.Values) (string, url.Values, error) {
	switch {
	case block.HasHeight():
		return "/blocks/" + strconv.FormatInt(block.Height, 10) + "/transactions", query, nil
	case block.HasHash():
		return "/blocks/hash/" + url.PathEscape(block.Hash) + "/transactions", query, nil
	default:
		return "", nil, ErrInvalidBlockReference
	}
}

// deref turns pointer scopes into values. A nil pointer becomes a nil Context.
func deref(scope Context) Context {
	switch c := scope.(type) {
	case *BlockContext:
		if c != nil {
			return *c
		}
	case *AccountContext:
		if c != nil {
			return *c
		}
	case *HotspotContext:
		if c != nil {
			return *c
		}
	case *ValidatorContext:
		if c != nil {
			return *c
		}
	default:
		return scope
	}
	return nil
}
