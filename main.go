package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"aisum/pkg/config"
	"aisum/pkg/history"
	"aisum/pkg/models"
	"aisum/pkg/prefs"
	"aisum/pkg/server"
	"aisum/pkg/summarize"
	"aisum/pkg/tui"
	"aisum/pkg/utils"
	"aisum/pkg/wallet"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Version should be set during build
var Version = "dev"

func main() {
	testFlag := flag.Bool("t", false, "Test configuration and exit")
	testLongFlag := flag.Bool("test", false, "Test configuration and exit")
	jsonFlag := flag.Bool("json", false, "Output test results as JSON")
	dryRunFlag := flag.Bool("dry-run", false, "Perform a trial run with no changes made")
	configFlag := flag.String("config", "", "Path to configuration file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	serverFlag := flag.Bool("server", false, "Run in headless server mode")
	portFlag := flag.Int("port", 8080, "Port for API server")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("aisum version %s\n", Version)
		os.Exit(0)
	}

	cfgInput := *configFlag
	if cfgInput == "" && len(flag.Args()) > 0 {
		cfgInput = flag.Args()[0]
	}
	path, err := config.GetConfigPath(cfgInput)
	if err != nil {
		fmt.Printf("Error determining config path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		fmt.Printf("Error loading config from %s: %v\n", path, err)
		os.Exit(1)
	}

	if *testFlag || *testLongFlag {
		report := runCheck(cfg, path, *dryRunFlag, *jsonFlag)
		if *jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		}
		if !report.ValidStructure {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		fmt.Printf("Error: invalid configuration at %s:\n", path)
		for _, e := range errs {
			fmt.Printf(" - %s\n", e)
		}
		os.Exit(1)
	}

	amountWei, err := utils.EtherToWei(cfg.Wallet.PaymentAmount)
	if err != nil {
		fmt.Printf("Error parsing wallet.payment_amount: %v\n", err)
		os.Exit(1)
	}

	provider := wallet.NewRPCProvider(cfg.Chain.RPCURL, cfg.Wallet.PrivateKey)
	session := wallet.NewSession(provider, nil)
	tracker := wallet.NewTracker(session, cfg.BalanceDecimals, nil)
	tracker.Start(context.Background())
	submitter := wallet.NewSubmitter(session, cfg.Wallet.PaymentTo, amountWei, nil)

	client := summarize.NewClient(cfg.SummarizerURL)
	cache := history.NewCache()

	srv := server.NewServer(session, tracker, cache, client)
	go func() {
		if err := srv.Start(*portFlag); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	if *serverFlag {
		fmt.Printf("Running in server mode on port %d...\n", *portFlag)
		select {} // Keep alive
	}

	userPrefs := prefs.Load("")
	tui.Start(cfg, client, cache, session, tracker, submitter, userPrefs.Theme, "", Version)
}

// runCheck validates the configuration and probes the configured
// endpoints. Nothing is mutated; the dry-run flag is only echoed in
// the report.
func runCheck(cfg config.Config, path string, dryRun, jsonOut bool) models.CheckReport {
	report := models.CheckReport{
		ConfigPath:     path,
		ValidStructure: true,
		DryRun:         dryRun,
	}

	if !jsonOut {
		fmt.Printf("Testing configuration at: %s\n", path)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		report.ValidStructure = false
		report.StructureErrors = errs
		if !jsonOut {
			for _, e := range errs {
				fmt.Printf("Error: %s\n", e)
			}
		}
		return report
	}

	if !jsonOut {
		fmt.Printf("Summarizer: %s ... ", cfg.SummarizerURL)
	}
	sumResult := models.EndpointResult{URL: cfg.SummarizerURL, Status: "ok"}
	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Get(cfg.SummarizerURL)
	if err != nil {
		sumResult.Status = "error"
		sumResult.Error = err.Error()
		if !jsonOut {
			fmt.Printf("Failed: %v\n", err)
		}
	} else {
		resp.Body.Close()
		if !jsonOut {
			fmt.Println("OK")
		}
	}
	report.Summarizer = &sumResult

	if !jsonOut {
		fmt.Printf("RPC: %s ... ", cfg.Chain.RPCURL)
	}
	rpcResult := models.EndpointResult{URL: cfg.Chain.RPCURL}
	ethClient, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		rpcResult.Status = "error"
		rpcResult.Error = err.Error()
		if !jsonOut {
			fmt.Printf("Failed: %v\n", err)
		}
	} else {
		id, err := ethClient.ChainID(context.Background())
		if err != nil {
			rpcResult.Status = "error"
			rpcResult.Error = fmt.Sprintf("Failed to get ChainID: %v", err)
			if !jsonOut {
				fmt.Printf("Failed to get ChainID: %v\n", err)
			}
		} else {
			rpcResult.Status = "ok"
			if !jsonOut {
				fmt.Printf("OK (ChainID: %s)\n", id.String())
			}
		}
		ethClient.Close()
	}
	report.RPCs = append(report.RPCs, rpcResult)

	return report
}
