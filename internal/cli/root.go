package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daftar/internal/backend"
	"daftar/internal/config"
	apphttp "daftar/internal/http"
	"daftar/internal/log"
	"daftar/internal/services"
)

var (
	configPath string

	appConfig *config.Config
	logger    *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "daftar",
	Short: "Bookkeeping for orders, partners and profit shares",
	Long: `daftar keeps the order book of a small trading business: ingoing and
outgoing orders, the partners who share its profit, and an audit trail of
every change. It serves a JSON API, exports dashboard CSVs and runs the
worker that stores audit entries delivered over AMQP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		LoadEnvFile()
		cfg, err := LoadAndValidateConfig(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = SetupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (default $"+config.ConfigFileEnv+")")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openBackend creates the configured store. direct forces audit entries to
// be written to the store instead of published.
func openBackend(ctx context.Context, direct bool) (*backend.Result, error) {
	bcfg, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return nil, err
	}
	if direct {
		bcfg.AuditTransport = backend.AuditDirect
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bcfg)
}

func newServices(res *backend.Result) apphttp.Services {
	return apphttp.Services{
		Orders:    services.NewOrderService(res.Store, res.Recorder, logger),
		Partners:  services.NewPartnerService(res.Store, res.Recorder, logger),
		Dashboard: services.NewDashboardService(res.Store, res.Store, logger),
		Activity:  services.NewActivityService(res.Store),
	}
}
