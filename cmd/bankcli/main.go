// Command bankcli is a console client for the bank ledger. It talks to the
// same Postgres store as the HTTP server through the same service layer.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"

	"github.com/pruthvirajsm/bank-ledger/internal/accountrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/accountservice"
	"github.com/pruthvirajsm/bank-ledger/internal/customerrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/customerservice"
	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/internal/ledgerrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/ledgerservice"
	"github.com/pruthvirajsm/bank-ledger/internal/movementrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/movementservice"
	"github.com/pruthvirajsm/bank-ledger/pkg/configpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/dbpkg"
)

type services struct {
	conn      *sql.DB
	customers *customerservice.Service
	accounts  *accountservice.Service
	ledger    *ledgerservice.Service
	movements *movementservice.Service
}

func (s *services) close() {
	_ = s.conn.Close()
}

func openServices(configPath string) (*services, error) {
	config, err := configpkg.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	accountService := accountservice.New(accountrepo.NewRepoPGS(conn))

	return &services{
		conn:      conn,
		customers: customerservice.New(customerrepo.NewRepoPGS(conn), accountService),
		accounts:  accountService,
		ledger:    ledgerservice.New(ledgerrepo.NewRepoPGS(conn, config.LockTimeout)),
		movements: movementservice.New(movementrepo.NewRepoPGS(conn)),
	}, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bankcli",
		Short: "Console client for the bank ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "config directory")

	rootCmd.AddCommand(
		newRegisterCustomerCommand(&configPath),
		newOpenAccountCommand(&configPath),
		newBalanceCommand(&configPath),
		newDepositCommand(&configPath),
		newWithdrawCommand(&configPath),
		newTransferCommand(&configPath),
		newHistoryCommand(&configPath),
		newSummaryCommand(&configPath),
		newRecentCommand(&configPath),
		newStatsCommand(&configPath),
	)

	return rootCmd
}

func newRegisterCustomerCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "register-customer <name> <age> <email> <contact>",
		Short: "Register a new customer",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing age: %w", err)
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			customer, err := s.customers.Register(context.Background(), args[0], int32(age), args[2], args[3])
			if err != nil {
				return err
			}

			fmt.Printf("customer %d registered (%s)\n", customer.ID, customer.Email)

			return nil
		},
	}
}

func newOpenAccountCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "open-account <customer-id> <kind> <initial-balance>",
		Short: "Open an account (SAVINGS, CURRENT or FIXED_DEPOSIT)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			account, err := s.accounts.Create(context.Background(), customerID, args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Printf("account %d opened with balance %s\n", account.ID, account.Balance)

			return nil
		},
	}
}

func newBalanceCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			account, err := s.accounts.Get(context.Background(), accountID)
			if err != nil {
				return err
			}

			fmt.Printf("account %d (%s) balance: %s\n", account.ID, account.Kind, account.Balance)

			return nil
		},
	}
}

func newDepositCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account-id> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.ledger.Deposit(context.Background(), accountID, args[1])
			if err != nil {
				return err
			}

			fmt.Printf("deposited %s, new balance %s (movement %d)\n",
				result.Movement.Amount, result.Account.Balance, result.Movement.ID)

			return nil
		},
	}
}

func newWithdrawCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account-id> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.ledger.Withdraw(context.Background(), accountID, args[1])
			if err != nil {
				return err
			}

			fmt.Printf("withdrew %s, new balance %s (movement %d)\n",
				result.Movement.Amount, result.Account.Balance, result.Movement.ID)

			return nil
		},
	}
}

func newTransferCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from-account-id> <to-account-id> <amount>",
		Short: "Transfer money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := parseID(args[0])
			if err != nil {
				return err
			}

			toID, err := parseID(args[1])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.ledger.Transfer(context.Background(), fromID, toID, args[2])
			if err != nil {
				return err
			}

			fmt.Printf("transferred %s: account %d now %s, account %d now %s\n",
				result.Movement.Amount,
				result.FromAccount.ID, result.FromAccount.Balance,
				result.ToAccount.ID, result.ToAccount.Balance)

			return nil
		},
	}
}

func newHistoryCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <account-id>",
		Short: "List an account's movements, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			movements, err := s.movements.History(context.Background(), accountID)
			if err != nil {
				return err
			}

			printMovements(movements)

			return nil
		},
	}
}

func newSummaryCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Aggregate an account's movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			summary, err := s.movements.Summarize(context.Background(), accountID)
			if err != nil {
				return err
			}

			fmt.Printf("movements:  %d\n", summary.Count)
			fmt.Printf("deposited:  %s\n", summary.TotalDeposited)
			fmt.Printf("withdrawn:  %s\n", summary.TotalWithdrawn)
			fmt.Printf("sent:       %s\n", summary.TotalSent)
			fmt.Printf("received:   %s\n", summary.TotalReceived)

			return nil
		},
	}
}

func newRecentCommand(configPath *string) *cobra.Command {
	var limit int32

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent movements across all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			movements, err := s.movements.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			printMovements(movements)

			return nil
		},
	}

	cmd.Flags().Int32Var(&limit, "limit", 10, "number of movements (1-100)")

	return cmd
}

func newStatsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show system statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openServices(*configPath)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := context.Background()

			customers, err := s.customers.Count(ctx)
			if err != nil {
				return err
			}

			accounts, err := s.accounts.Count(ctx)
			if err != nil {
				return err
			}

			movements, err := s.movements.Count(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("customers: %d\naccounts:  %d\nmovements: %d\n", customers, accounts, movements)

			for _, kind := range domain.AccountKinds {
				byKind, err := s.accounts.ListByKind(ctx, string(kind))
				if err != nil {
					return err
				}

				fmt.Printf("%-14s %d\n", kind, len(byKind))
			}

			recent, err := s.movements.Recent(ctx, 5)
			if err != nil {
				return err
			}

			if len(recent) > 0 {
				fmt.Println("recent activity:")
				printMovements(recent)
			}

			return nil
		},
	}
}

func printMovements(movements []domain.Movement) {
	for _, m := range movements {
		from, to := "-", "-"
		if m.FromAccountID != nil {
			from = strconv.FormatInt(*m.FromAccountID, 10)
		}
		if m.ToAccountID != nil {
			to = strconv.FormatInt(*m.ToAccountID, 10)
		}

		fmt.Printf("%6d  %-9s  %12s  from=%-5s to=%-5s  %s\n",
			m.ID, m.Kind, m.Amount, from, to, m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}

	return id, nil
}
