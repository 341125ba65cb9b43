package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/config"
	"github.com/codeWhizperer/TBA/db"
	"github.com/codeWhizperer/TBA/events"
	"github.com/codeWhizperer/TBA/exception"
	"github.com/codeWhizperer/TBA/jsonrpc"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/monitoring"
	"github.com/codeWhizperer/TBA/store"
	"github.com/codeWhizperer/TBA/types"
)

var (
	configPath   string
	tunablesPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the token-bound account node",
	Run: func(cmd *cobra.Command, args []string) {
		runNode(configPath, tunablesPath)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&configPath, "config", "c", "config/node.yml", "Path to the node config file")
	runCmd.Flags().StringVar(&tunablesPath, "tunables", "config/account.ini", "Path to the account tunables file")
}

func runNode(configPath, tunablesPath string) {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tunables := config.DefaultAccountTunables()
	if _, err := os.Stat(tunablesPath); err == nil {
		if tunables, err = config.LoadAccountTunables(tunablesPath); err != nil {
			log.Fatalf("Failed to load account tunables: %v", err)
		}
	}

	monitoring.InitMetrics()
	metricsMux := http.NewServeMux()
	monitoring.RegisterMetrics(metricsMux)
	exception.SafeGo("METRICS_SERVER", func() {
		if err := http.ListenAndServe(cfg.MetricsAddr, metricsMux); err != nil {
			logx.Error("METRICS", "metrics server stopped: ", err)
		}
	})

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create db directory: %v", err)
	}
	dbProvider, err := db.NewBoltProvider(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open account db: %v", err)
	}
	states, err := store.NewGenericAccountStateStore(dbProvider)
	if err != nil {
		log.Fatalf("Failed to create account state store: %v", err)
	}
	defer states.MustClose()

	bus := events.NewEventBus()

	var archive *store.PGEventArchive
	if cfg.EventArchiveDSN != "" {
		archive, err = store.NewPGEventArchive(cfg.EventArchiveDSN)
		if err != nil {
			log.Fatalf("Failed to connect event archive: %v", err)
		}
		archive.Start(bus)
		defer archive.Stop(bus)
	}

	host := chain.NewSimulator()
	seedDevAsset(host, cfg)

	registry := jsonrpc.NewRegistry(host, states, bus, tunables)
	server := jsonrpc.NewServer(cfg.ListenAddr, registry)
	server.Start()

	logx.Info("NODE", "Token-bound account node started | rpc=", cfg.ListenAddr, " metrics=", cfg.MetricsAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logx.Info("NODE", "Shutting down")
}

// seedDevAsset registers the configured dev asset contract on the simulator,
// answering both owner-query conventions for any asset id.
func seedDevAsset(host *chain.Simulator, cfg *config.NodeConfig) {
	if cfg.DevAssetContract == "" || cfg.DevAssetOwner == "" {
		return
	}
	contract, err := types.ParseAddress(cfg.DevAssetContract)
	if err != nil {
		log.Fatalf("Invalid dev_asset_contract: %v", err)
	}
	owner, err := types.ParseAddress(cfg.DevAssetOwner)
	if err != nil {
		log.Fatalf("Invalid dev_asset_owner: %v", err)
	}
	ownerFelt, err := owner.Felt()
	if err != nil {
		log.Fatalf("Invalid dev_asset_owner: %v", err)
	}

	answer := func(caller types.Address, calldata []*uint256.Int) ([]*uint256.Int, error) {
		return []*uint256.Int{ownerFelt}, nil
	}
	host.RegisterEntryPoint(contract, chain.SelectorOwnerOfCamel, answer)
	host.RegisterEntryPoint(contract, chain.SelectorOwnerOfSnake, answer)
	logx.Info("NODE", "Seeded dev asset contract | contract=", contract, " owner=", owner)
}
