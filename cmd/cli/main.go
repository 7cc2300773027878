// Command storefront drives the catalog, cart and checkout engine from the
// terminal for a single local session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"storefront-service/internal/clients"
	"storefront-service/internal/config"
	"storefront-service/internal/pricing"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// localSession is the only session the CLI ever uses
const localSession = "local"

var (
	// Global flags
	statePath  string
	backendURL string
	verbose    bool

	// Wired in PersistentPreRunE
	app *cliApp
)

type cliApp struct {
	store      repository.SessionStore
	sessions   *services.SessionManager
	catalog    *services.CatalogService
	storefront *services.StorefrontService
	checkout   *services.CheckoutService
	auth       *services.AuthService
	out        io.Writer
}

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Browse the catalog, fill a cart and check out from the terminal",
	Long: `storefront is a terminal client for the storefront backend.

Filters, cart, coupon and login persist between runs in a local SQLite
state file, so every command continues where the last one stopped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		app = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "state file (default $STOREFRONT_STATE or ~/.storefront/state.db)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default $BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")

	rootCmd.AddCommand(catalogCmd, reloadCmd)
	rootCmd.AddCommand(cartCmd, totalsCmd, checkoutCmd)
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+describeError(err)))
		os.Exit(1)
	}
}

// execute runs the command line and closes the state store whether or not
// the command failed
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if app != nil {
		if cerr := app.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newCLIApp(out io.Writer) (*cliApp, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	path, err := resolveStatePath(statePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	store, err := repository.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}

	if backendURL == "" {
		backendURL = cfg.BackendURL
	}
	backend := clients.NewBackendClient(backendURL, cfg.BackendTimeout)
	calculator := pricing.NewCalculator(cfg.DeliveryFee, pricing.DefaultRules())
	sessions := services.NewSessionManager(store, logger)
	catalogService := services.NewCatalogService(backend, logger)

	return &cliApp{
		store:      store,
		sessions:   sessions,
		catalog:    catalogService,
		storefront: services.NewStorefrontService(sessions, catalogService, calculator, cfg.PageSizeOptions, logger),
		checkout:   services.NewCheckoutService(backend, sessions, calculator, nil, logger),
		auth:       services.NewAuthService(backend, sessions, logger),
		out:        out,
	}, nil
}

// resolveStatePath picks the flag, then STOREFRONT_STATE, then ~/.storefront/state.db
func resolveStatePath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("STOREFRONT_STATE"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".storefront", "state.db"), nil
}
