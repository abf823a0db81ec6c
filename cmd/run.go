package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/curbsignal/curbsignal/app"
	"github.com/curbsignal/curbsignal/infra/logger"
)

var forceTrigger string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one decision cycle and exit",
	Long:  "Runs a single cycle against the current civil time, suitable for an external hourly scheduler such as cron.",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().StringVar(&forceTrigger, "force", "", "force a trigger regardless of the clock: summary, move or emergency")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	switch forceTrigger {
	case app.ForceNone, app.ForceSummary, app.ForceMove, app.ForceEmergency:
	default:
		return fmt.Errorf("unknown --force value %q", forceTrigger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.RunCycle(ctx, forceTrigger)
}
