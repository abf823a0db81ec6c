package cmd

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/curbsignal/curbsignal/infra/logger"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the optimized parking plan for the week",
	RunE:  printWeek,
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func printWeek(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	w, err := svc.BuildWeek(context.Background(), svc.NowCivil())
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Day", "Date", "Cleaning", "Suspended", "Park On"})
	for _, d := range w.Days {
		cleaning := "none"
		switch {
		case d.HasNearSideCleaning:
			cleaning = "near"
		case d.HasFarSideCleaning:
			cleaning = "far"
		}
		suspended := ""
		if d.IsSuspended {
			suspended = d.SuspensionReason
			if suspended == "" {
				suspended = "yes"
			}
		}
		tw.AppendRow(table.Row{d.DayOfWeek, d.Date.Format("2006-01-02"), cleaning, suspended, d.ParkOnSide.String()})
	}
	tw.Render()
	return nil
}
