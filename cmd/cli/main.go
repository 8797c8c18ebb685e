// Operator CLI: runs distribution and reconciliation against the configured
// database without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/investra/platform/infra/initializer"
	"github.com/investra/platform/pkg/config"
	distdomain "github.com/investra/platform/pkg/domain/distribution"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		color.Red("failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("failed to initialize: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "distribute":
		force := len(os.Args) > 2 && os.Args[2] == "--force"
		summary, err := deps.Distribution.Run(ctx, distdomain.TriggerManual, force)
		if err != nil {
			color.Red("distribution run failed: %v", err)
			os.Exit(1)
		}
		color.Green("distribution %s: processed=%d skipped=%d failed=%d",
			summary.Date, summary.Processed, summary.Skipped, summary.Failed)
	case "reconcile":
		findings, err := deps.Reconciliation.RunFull(ctx)
		if err != nil {
			color.Red("reconciliation failed: %v", err)
			os.Exit(1)
		}
		if len(findings) == 0 {
			color.Green("all balances consistent")
			return
		}
		color.Yellow("repaired %d balance(s):", len(findings))
		for _, f := range findings {
			fmt.Printf("  %s stored=%s computed=%s diff=%.2f\n",
				f.Email, f.Stored, f.Computed, f.Difference)
		}
	case "diagnose":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		id, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("invalid user id: %v", err)
			os.Exit(1)
		}
		report, err := deps.Reconciliation.DiagnoseChain(ctx, id)
		if err != nil {
			color.Red("diagnosis failed: %v", err)
			os.Exit(1)
		}
		if len(report.Breaks) == 0 {
			color.Green("%s: chain intact over %d transactions", report.Email, report.TotalTransactions)
			return
		}
		color.Yellow("%s: %d chain break(s) over %d transactions:",
			report.Email, len(report.Breaks), report.TotalTransactions)
		for _, b := range report.Breaks {
			fmt.Printf("  %s %s %q at %s: expected prev %.2f, recorded %.2f (gap %.2f)\n",
				b.TransactionID, b.Type, b.Description, b.CreatedAt.Format("2006-01-02 15:04:05"),
				b.ExpectedPrevF, b.ActualPrevF, b.GapF)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  distribute [--force]   run a manual distribution")
	fmt.Println("  reconcile              recompute and repair all balances")
	fmt.Println("  diagnose <user_id>     chain-break diagnosis for one user")
}
