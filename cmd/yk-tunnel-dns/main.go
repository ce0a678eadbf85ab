package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/cli"
	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/cloudflare"
	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/config"
	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/reconcile"
)

var Version = "dev"

var (
	configPath string
	debug      bool
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "yk-tunnel-dns",
	Short: "Reconcile Cloudflare tunnel hostnames with zone CNAME records",
	Long: `yk-tunnel-dns compares the hostnames declared by your Cloudflare
tunnels against the CNAME records in your zones, and computes the creates,
updates and deletes needed to bring DNS in line. Records it cannot
positively classify as tunnel-managed are never touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the DNS changes a sync would make, without applying them",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, actions, conflicts, err := buildPlan(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderPlan(os.Stdout, actions, conflicts)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Compute the DNS changes and apply them after confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, actions, conflicts, err := buildPlan(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderPlan(os.Stdout, actions, conflicts)
		if len(actions) == 0 {
			return nil
		}

		if !assumeYes && !cli.Confirm(os.Stdin, os.Stdout, len(actions)) {
			fmt.Println("Aborted.")
			return nil
		}

		applied, err := client.Apply(cmd.Context(), actions)
		cli.RenderApplyResult(os.Stdout, len(applied), len(actions))
		if err != nil {
			return fmt.Errorf("apply finished with failures: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default $TUNNEL_DNS_CONFIG_PATH or configs/tunnel-dns.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(planCmd, applyCmd)
	rootCmd.Version = Version
}

// buildPlan runs the collectors and the differ, the read-only half of a run.
func buildPlan(ctx context.Context) (*cloudflare.Client, []reconcile.Action, []reconcile.Conflict, error) {
	log, err := newLogger(debug)
	if err != nil {
		return nil, nil, nil, err
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to load config: %w", err)
	}

	client := cloudflare.NewClient(cfg, log.WithName("cloudflare"))

	tunnels, err := client.Tunnels(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	zones, err := client.Zones(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	records, listedZones, err := client.Records(ctx, zones)
	if err != nil {
		// Partial failure: the failed zones are already excluded from
		// listedZones, the rest of the run proceeds.
		log.Error(err, "some zones could not be listed, continuing without them")
	}

	actions, conflicts := reconcile.Diff(
		reconcile.BuildTunnelCatalog(tunnels),
		reconcile.BuildDNSCatalog(records, cfg.TargetSuffix),
		reconcile.NewZoneSet(listedZones),
	)
	log.V(1).Info("computed plan", "actions", len(actions), "conflicts", len(conflicts))
	return client, actions, conflicts, nil
}

func newLogger(debug bool) (logr.Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Logger{}, fmt.Errorf("unable to build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
