// Command swapctl is an operator tool for the book exchange store. It works
// directly against the configured store engine, so it must not be run while
// the API server is writing to the same JSON document.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/emzola/bookswap/config"
	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/emzola/bookswap/repository/jsonfile"
	"github.com/emzola/bookswap/repository/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "swapctl",
		Short:         "Operator tool for the BookSwap store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to YAML config file")
	rootCmd.AddCommand(seedCmd(), statsCmd(), resetPasswordCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the jsonfile store named by the config. The postgres engine
// is managed with regular SQL tooling, so swapctl only handles jsonfile.
func openStore(cfg config.Config) (*jsonfile.Store, error) {
	if cfg.Store.Engine != "jsonfile" {
		return nil, fmt.Errorf("swapctl only supports the jsonfile engine, store is configured as %q", cfg.Store.Engine)
	}
	return jsonfile.Open(cfg.Store.Path)
}

// openRepository opens whichever engine the config names. Used by commands
// that only need the repository interface.
func openRepository(cfg config.Config) (repository.Repository, func(), error) {
	switch cfg.Store.Engine {
	case "postgres":
		db, err := postgres.OpenDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.New(db), func() { db.Close() }, nil
	case "jsonfile":
		store, err := jsonfile.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store engine %q", cfg.Store.Engine)
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the store with demo users and books if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			err = store.Seed()
			if err != nil {
				return err
			}
			fmt.Println("store seeded")
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print record counts per collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			counts := store.Counts()
			for _, collection := range []string{"users", "books", "exchanges", "tokens"} {
				fmt.Printf("%-10s %d\n", collection, counts[collection])
			}
			return nil
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Set a new password for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			repo, closeRepo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeRepo()
			user, err := repo.GetUserByEmail(args[0])
			if err != nil {
				if errors.Is(err, repository.ErrRecordNotFound) {
					return fmt.Errorf("no user with email %q", args[0])
				}
				return err
			}
			fmt.Print("New password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return err
			}
			fmt.Println()
			password := strings.TrimSpace(string(bytePassword))
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters long")
			}
			err = user.Password.Set(password)
			if err != nil {
				return err
			}
			err = repo.UpdateUser(user)
			if err != nil {
				return err
			}
			// Revoke outstanding tokens so old sessions can't keep using the
			// account after a reset.
			err = repo.DeleteAllTokensForUser(data.ScopeAuthentication, user.ID)
			if err != nil {
				return err
			}
			fmt.Printf("password updated for %s\n", user.Email)
			return nil
		},
	}
}
