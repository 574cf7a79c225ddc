// Package pagination provides forward-only cursor pagination for ledger API
// list endpoints.
//
// List endpoints return one page of records plus an opaque cursor. The
// cursor is handed back verbatim to fetch the following page; an empty
// cursor marks the last page. The package never parses or builds cursors.
//
// A Paginator holds one page and the Continuation needed to fetch the next
// one: the scope the list was issued against, the filter it used and the
// cursor. The Source that re-issues the list call is stored alongside it.
//
// Example usage:
//
//	page, err := txns.List(ctx, transactions.ForAccount(addr), pagination.Params{
//		FilterTypes: []string{models.TxnPaymentV1},
//	})
//	if err != nil {
//		return err
//	}
//	payments, err := page.Take(ctx, 50)
//
// Paginators are forward-only. Starting over means calling List again with
// an empty cursor.
package pagination
