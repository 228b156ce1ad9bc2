package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/ucp-client/internal/adapters/secrets"
	"github.com/kevin07696/ucp-client/internal/adapters/ucp"
	"github.com/kevin07696/ucp-client/internal/config"
	"github.com/kevin07696/ucp-client/internal/domain"
	"github.com/kevin07696/ucp-client/internal/reporting"
	"github.com/kevin07696/ucp-client/internal/transactions"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	"github.com/kevin07696/ucp-client/pkg/security"
	"github.com/kevin07696/ucp-client/pkg/timeutil"
)

type cli struct {
	connector *ucp.Connector
	out       *json.Encoder
}

func main() {
	var (
		action   = flag.String("action", "", "Action to perform: signin, sale, transaction, list")
		amount   = flag.String("amount", "", "Sale amount in major units, e.g. 19.99")
		currency = flag.String("currency", "USD", "Sale currency")
		card     = flag.String("card", "", "Card number for a sale")
		expMonth = flag.Int("exp-month", 0, "Card expiry month (1-12)")
		expYear  = flag.Int("exp-year", 0, "Card expiry year")
		cvv      = flag.String("cvv", "", "Card security code")
		txnID    = flag.String("id", "", "Transaction id for the transaction action")
		from     = flag.String("from", "", "List transactions created on or after YYYY-MM-DD")
		to       = flag.String("to", "", "List transactions created on or before YYYY-MM-DD")
		page     = flag.Int("page", 1, "Page number for list")
		pageSize = flag.Int("page-size", 10, "Page size for list")
		status   = flag.String("status", "", "Filter list by transaction status")
	)
	flag.Parse()

	if *action == "" {
		fmt.Println("Usage: ucpctl -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  signin      - Sign in and print the session token details")
		fmt.Println("  sale        - Charge a card (-amount, -card, -exp-month, -exp-year)")
		fmt.Println("  transaction - Look up one transaction (-id)")
		fmt.Println("  list        - List transactions (-from, -to, -page, -page-size, -status)")
		fmt.Println("Configuration is read from UCP_* environment variables or a .env file.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := security.NewZapLoggerFromLevel(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Secrets.Provider != "" {
		sm, err := secrets.New(ctx, cfg.SecretOptions(), logger.Zap())
		if err != nil {
			log.Fatal("Failed to initialize secret manager:", err)
		}
		if err := cfg.ResolveAppKey(ctx, sm); err != nil {
			log.Fatal("Failed to resolve app key:", err)
		}
	}

	connector, err := ucp.NewConnectorWithDefaults(cfg.ConnectorConfig(), logger)
	if err != nil {
		log.Fatal("Failed to create connector:", err)
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	c := &cli{connector: connector, out: out}

	switch *action {
	case "signin":
		err = c.signIn(ctx)
	case "sale":
		err = c.sale(ctx, *amount, *currency, domain.Card{
			Number:    *card,
			ExpMonth:  *expMonth,
			ExpYear:   *expYear,
			CVV:       *cvv,
			EntryMode: domain.EntryModeEcom,
		})
	case "transaction":
		err = c.transaction(ctx, *txnID)
	case "list":
		err = c.list(ctx, *from, *to, *page, *pageSize, *status)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *action, err)
	}
}

func (c *cli) signIn(ctx context.Context) error {
	tok, err := c.connector.SignIn(ctx)
	if err != nil {
		return err
	}
	return c.out.Encode(map[string]interface{}{
		"app_id":            tok.AppID,
		"app_name":          tok.AppName,
		"type":              tok.TokenType,
		"seconds_to_expire": tok.SecondsToExpire,
		"expires_at":        tok.ExpiresAt(),
	})
}

func (c *cli) sale(ctx context.Context, amount, currency string, card domain.Card) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	txn, err := transactions.Sale(value).
		WithCurrency(currency).
		WithCard(card).
		Execute(ctx, c.connector)
	if err != nil {
		// A decline still carries the mapped transaction
		if txn != nil && pkgerrors.IsDeclined(err) {
			if encErr := c.out.Encode(txn); encErr != nil {
				return encErr
			}
		}
		return err
	}
	return c.out.Encode(txn)
}

// Reports need a session, so the read actions sign in first
func (c *cli) transaction(ctx context.Context, id string) error {
	if err := c.connector.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	row, err := reporting.TransactionDetail(c.connector, id).Execute(ctx)
	if err != nil {
		return err
	}
	return c.out.Encode(row)
}

func (c *cli) list(ctx context.Context, from, to string, page, pageSize int, status string) error {
	start, err := timeutil.ParseDate(from)
	if err != nil {
		return fmt.Errorf("invalid -from date: %w", err)
	}
	end, err := timeutil.ParseDate(to)
	if err != nil {
		return fmt.Errorf("invalid -to date: %w", err)
	}

	if err := c.connector.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	report := reporting.FindTransactions(c.connector).
		WithPaging(page, pageSize).
		OrderBy(domain.SortPropertyTimeCreated, domain.SortDescending)
	if start != nil {
		report.WithStartDate(*start)
	}
	if end != nil {
		report.WithEndDate(*end)
	}
	if status != "" {
		report.Where(domain.SearchCriteriaTransactionStatus, status)
	}

	result, err := report.Execute(ctx)
	if err != nil {
		return err
	}
	return c.out.Encode(result)
}
