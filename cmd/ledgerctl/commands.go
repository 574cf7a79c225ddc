package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Sternrassler/helium-client/pkg/client"
	"github.com/Sternrassler/helium-client/pkg/logging"
	"github.com/Sternrassler/helium-client/pkg/metrics"
	"github.com/Sternrassler/helium-client/pkg/models"
	"github.com/Sternrassler/helium-client/pkg/transactions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfgFile string
	out     io.Writer

	cfg    *Config
	client *client.Client
	redis  *redis.Client
	txns   *transactions.Transactions
	logger zerolog.Logger
	stop   context.CancelFunc
}

// execute runs the CLI with args and releases what setup acquired.
func execute(ctx context.Context, out io.Writer, args []string) error {
	root, a := newRootCmd(out)
	defer a.close()

	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd(out io.Writer) (*cobra.Command, *app) {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Query and submit Helium ledger transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML, optional)")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newSubmitCmd(a),
		newCountsCmd(a),
	)
	return root, a
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := loadConfig(viper.New(), a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Setup(logging.Config{Level: level, Pretty: cfg.Log.Pretty})
	a.logger = logging.NewLogger("ledgerctl")

	cc := cfg.clientConfig()
	a.redis = cc.Redis

	c, err := client.New(cc)
	if err != nil {
		return err
	}
	a.client = c
	a.txns = transactions.New(c)

	if cfg.Metrics.Addr != "" {
		metricsCtx, stop := context.WithCancel(ctx)
		a.stop = stop
		go func() {
			if err := metrics.Serve(metricsCtx, cfg.Metrics.Addr, a.logger); err != nil {
				a.logger.Error().Err(err).Msg("Metrics listener failed")
			}
		}()
	}
	return nil
}

func (a *app) close() {
	if a.stop != nil {
		a.stop()
	}
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type scopeFlags struct {
	block     int64
	blockHash string
	account   string
	hotspot   string
	validator string
}

// scope resolves the selector flags into exactly one Context. A block may be
// given by height and hash together; height wins when listing.
func (f scopeFlags) scope() (transactions.Context, error) {
	var scopes []transactions.Context
	if f.block > 0 || f.blockHash != "" {
		scopes = append(scopes, transactions.BlockContext{Block: models.Block{Height: f.block, Hash: f.blockHash}})
	}
	if f.account != "" {
		scopes = append(scopes, transactions.ForAccount(f.account))
	}
	if f.hotspot != "" {
		scopes = append(scopes, transactions.ForHotspot(f.hotspot))
	}
	if f.validator != "" {
		scopes = append(scopes, transactions.ForValidator(f.validator))
	}

	switch len(scopes) {
	case 1:
		return scopes[0], nil
	case 0:
		return nil, errors.New("one of --block, --block-hash, --account, --hotspot or --validator is required")
	default:
		return nil, errors.New("only one listing scope may be given")
	}
}

func (f *scopeFlags) register(cmd *cobra.Command, withBlock bool) {
	if withBlock {
		cmd.Flags().Int64Var(&f.block, "block", 0, "block height")
		cmd.Flags().StringVar(&f.blockHash, "block-hash", "", "block hash")
	}
	cmd.Flags().StringVar(&f.account, "account", "", "account address")
	cmd.Flags().StringVar(&f.hotspot, "hotspot", "", "hotspot address")
	cmd.Flags().StringVar(&f.validator, "validator", "", "validator address")
}

// listOutput is what list prints. Cursor and Skip resume the listing at the
// first transaction not printed: pass them back as --cursor and --skip.
type listOutput struct {
	Transactions []json.RawMessage `json:"transactions"`
	HasMore      bool              `json:"has_more"`
	Cursor       string            `json:"cursor,omitempty"`
	Skip         int               `json:"skip,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		sf      scopeFlags
		filters []string
		cursor  string
		skip    int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions of a block, account, hotspot or validator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			if skip < 0 || limit < 0 {
				return errors.New("--skip and --limit must not be negative")
			}

			page, err := a.txns.List(cmd.Context(), scope, transactions.ListParams{
				Cursor:      cursor,
				FilterTypes: filters,
			})
			if err != nil {
				return err
			}

			items, next, err := collect(cmd.Context(), page, cursor, skip, limit)
			if err != nil {
				return err
			}

			out := listOutput{
				HasMore: next.more,
				Cursor:  next.cursor,
				Skip:    next.skip,
			}
			out.Transactions, err = encodeTransactions(items)
			if err != nil {
				return err
			}
			a.logger.Debug().Int("count", len(items)).Bool("has_more", next.more).Msg("Listed transactions")
			return a.print(out)
		},
	}

	sf.register(cmd, true)
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "transaction types to include (not applied to blocks)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume from a cursor")
	cmd.Flags().IntVar(&skip, "skip", 0, "drop this many transactions from the first page")
	cmd.Flags().IntVar(&limit, "limit", 0, "collect up to this many transactions across pages (0 prints one page)")
	return cmd
}

// resume locates the first transaction collect did not return.
type resume struct {
	more   bool
	cursor string
	skip   int
}

// collect gathers transactions from page onwards, dropping the first skip
// items of page. page was fetched with cursor. A zero limit stops after one
// page.
func collect(ctx context.Context, page *transactions.Page, cursor string, skip, limit int) ([]models.Transaction, resume, error) {
	out := []models.Transaction{}
	for {
		items := page.Items()
		skip = min(skip, len(items))
		items = items[skip:]

		if remaining := limit - len(out); limit > 0 && len(items) > remaining {
			out = append(out, items[:remaining]...)
			return out, resume{more: true, cursor: cursor, skip: skip + remaining}, nil
		}
		out = append(out, items...)

		if !page.HasMore() {
			return out, resume{}, nil
		}
		if limit == 0 || len(out) == limit {
			return out, resume{more: true, cursor: page.Cursor()}, nil
		}

		next, err := page.Next(ctx)
		if err != nil {
			return nil, resume{}, err
		}
		cursor, skip, page = page.Cursor(), 0, next
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <hash>",
		Short: "Fetch a transaction by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txn, err := a.txns.Get(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("transaction %s not found", args[0])
				}
				return err
			}
			raw, err := encodeTransaction(txn)
			if err != nil {
				return err
			}
			return a.print(raw)
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <base64-txn>",
		Short: "Submit a signed, encoded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := a.txns.Submit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Info().Str("hash", pending.Hash).Msg("Submitted transaction")
			return a.print(pending)
		},
	}
}

func newCountsCmd(a *app) *cobra.Command {
	var validator string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show activity counts per transaction type for a validator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if validator == "" {
				return errors.New("--validator is required")
			}
			counts, err := a.txns.Counts(cmd.Context(), transactions.ForValidator(validator))
			if err != nil {
				return err
			}
			return a.print(counts)
		},
	}
	cmd.Flags().StringVar(&validator, "validator", "", "validator address")
	return cmd
}

func encodeTransactions(txns []models.Transaction) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(txns))
	for _, txn := range txns {
		raw, err := encodeTransaction(txn)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// encodeTransaction re-emits unknown kinds verbatim.
func encodeTransaction(txn models.Transaction) (json.RawMessage, error) {
	if unknown, ok := txn.(*models.UnknownTransaction); ok {
		return unknown.Raw, nil
	}
	return json.Marshal(txn)
}
