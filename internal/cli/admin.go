package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/freestreet/internal/config"
	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/factory"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/services/account"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Edit stored profiles directly",
		Long: `Edit stored profiles without going through the server. These commands
open the storage named by STORAGE_TYPE and REDIS_URL, so they only make
sense with persistent storage. Use them to appoint the first operators.`,
	}

	cmd.AddCommand(newAdminGrantCmd())
	cmd.AddCommand(newAdminRankCmd())

	return cmd
}

func newAdminGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <login> <level>",
		Short: fmt.Sprintf("Set the admin level of a profile (%d-%d)", model.MinAdminLevel, model.MaxAdminLevel),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid admin level %q", args[1])
			}

			err = withAccounts(func(accounts *account.Service) error {
				return accounts.GrantAdminLevel(cmd.Context(), args[0], level)
			})
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("%s is now admin level %d", args[0], level))
			return nil
		},
	}
}

func newAdminRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank <login> <rank>",
		Short: "Set the police rank of a profile (number or name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, err := parsePoliceRank(args[1])
			if err != nil {
				return err
			}

			err = withAccounts(func(accounts *account.Service) error {
				return accounts.GrantPoliceRank(cmd.Context(), args[0], rank)
			})
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("%s is now %s", args[0], rank))
			return nil
		},
	}
}

// withAccounts opens the configured storage for the duration of fn
func withAccounts(fn func(accounts *account.Service) error) error {
	srv, err := config.Load()
	if err != nil {
		return err
	}
	if err := srv.Validate(); err != nil {
		return err
	}
	if srv.StorageType != factory.StorageTypeRedis {
		return errors.New("admin commands need persistent storage (STORAGE_TYPE=redis)")
	}

	logger := srv.Logger(os.Stderr)
	store, err := factory.NewStorage(srv.Factory(logger))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	accounts := account.New(store, clock.New(), logger, account.DefaultConfig())
	if err := fn(accounts); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return errors.New("no profile with that login name")
		}
		return err
	}
	return nil
}

// parsePoliceRank accepts a rank number or a rank name in any case
func parsePoliceRank(s string) (model.PoliceRank, error) {
	if n, err := strconv.Atoi(s); err == nil {
		rank := model.PoliceRank(n)
		if !rank.IsValid() {
			return 0, fmt.Errorf("invalid police rank %d", n)
		}
		return rank, nil
	}
	for _, rank := range model.AllPoliceRanks() {
		if strings.EqualFold(rank.String(), s) {
			return rank, nil
		}
	}
	return 0, fmt.Errorf("unknown police rank %q", s)
}
