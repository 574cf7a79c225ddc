package transactions

import (
	"context"
	"net/http"
	"testing"

	"github.com/Sternrassler/helium-client/internal/testutil"
	"github.com/Sternrassler/helium-client/pkg/client"
	"github.com/Sternrassler/helium-client/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLedger wires the resource to a real client pointed at a mock ledger.
func newLedger(t *testing.T) (*Transactions, *testutil.MockLedger) {
	t.Helper()

	mock := testutil.NewMockLedger()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig("helium-client-test/1.0")
	cfg.BaseURL = mock.URL() + "/v1"
	cfg.RateLimit = 0
	cfg.MaxRetries = 0

	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return New(c), mock
}

func TestLedger_AccountPayments(t *testing.T) {
	txns, mock := newLedger(t)
	mock.SetPage("/v1/accounts/my-address/activity", "", []map[string]any{
		testutil.PaymentV1Record("fake-hash-1", "my-address", "other-address", 10000),
		testutil.PaymentV1Record("fake-hash-2", "my-address", "other-address", 20000),
	}, "")

	p, err := txns.List(context.Background(), ForAccount("my-address"), ListParams{
		FilterTypes: []string{models.TxnPaymentV1},
	})
	require.NoError(t, err)

	got, err := p.Take(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10000), got[0].(*models.PaymentV1).Amount)
	assert.Equal(t, int64(20000), got[1].(*models.PaymentV1).Amount)
	assert.Equal(t, "0.0001 HNT", got[0].(*models.PaymentV1).AmountBalance().String())

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "payment_v1", reqs[0].Query.Get("filter_types"))
	assert.False(t, reqs[0].Query.Has("cursor"))
}

func TestLedger_TakeStopsAtLastPage(t *testing.T) {
	txns, mock := newLedger(t)
	mock.SetPage("/v1/blocks/12345/transactions", "", []map[string]any{
		testutil.PaymentV1Record("a", "p", "q", 1),
		testutil.PaymentV1Record("b", "p", "q", 2),
	}, "c1")
	mock.SetPage("/v1/blocks/12345/transactions", "c1", []map[string]any{
		testutil.PaymentV1Record("c", "p", "q", 3),
	}, "")

	p, err := txns.List(context.Background(), ForBlock(12345), ListParams{})
	require.NoError(t, err)

	got, err := p.Take(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].TxnHash(), got[1].TxnHash(), got[2].TxnHash()})

	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "c1", reqs[1].Query.Get("cursor"))
	assert.False(t, reqs[1].Query.Has("filter_types"))
}

func TestLedger_GetAndSubmit(t *testing.T) {
	txns, mock := newLedger(t)
	mock.SetResponse(http.MethodGet, "/v1/transactions/fake-hash-1", "", testutil.NewJSONResponse(map[string]any{
		"data": testutil.PaymentV1Record("fake-hash-1", "p", "q", 10000),
	}))
	mock.SetResponse(http.MethodPost, "/v1/pending_transactions", "", testutil.NewJSONResponse(map[string]any{
		"data": map[string]any{"hash": "txn hash", "status": "received"},
	}))

	txn, err := txns.Get(context.Background(), "fake-hash-1")
	require.NoError(t, err)
	assert.Equal(t, models.TxnPaymentV1, txn.TxnType())

	pending, err := txns.Submit(context.Background(), "my txn")
	require.NoError(t, err)
	assert.Equal(t, "txn hash", pending.Hash)

	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `{"txn":"my txn"}`, string(reqs[1].Body))

	_, err = txns.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, client.ErrNotFound)
}
