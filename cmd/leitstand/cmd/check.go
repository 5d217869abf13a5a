package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/leitstand/foundation/utils/mapx"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/shell"
	"github.com/msto63/leitstand/pkg/core/health"
	"github.com/msto63/leitstand/pkg/core/logging"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Prüft Speicher, Wörterbücher, Router und Systemabfrage",
	Long: `Startet die Shell ohne Terminal-UI und führt die Selbsttests aus.
Der Exit-Code ist 1, wenn ein Test fehlschlägt.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Ausgabe als JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	sched := router.NewManualScheduler()
	app, err := shell.New(shell.Options{
		Config:    cfg,
		Location:  router.NewMemoryLocation(""),
		Scheduler: sched,
		Locale:    i18n.EnvLocale{},
		Logger:    logging.New("check"),
	})
	if err != nil {
		printError("Shell konnte nicht erstellt werden", err)
		return err
	}
	defer app.Close()

	app.Start(cmd.Context())
	sched.Flush()

	report := app.Health().CheckWithTimeout(5 * time.Second)
	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("check failed: %s", report.Status)
	}
	return nil
}

func printReport(report *health.Report) {
	fmt.Println(report.String())
	fmt.Println()
	for _, c := range report.Checks {
		icon := "[+]"
		switch c.Status {
		case health.StatusDegraded:
			icon = "[~]"
		case health.StatusUnhealthy:
			icon = "[-]"
		}
		fmt.Printf("  %s %-8s %-10s %s\n", icon, c.Name, c.Status, c.Message)

		for _, k := range mapx.SortedKeys(c.Details) {
			fmt.Printf("        %s: %v\n", k, c.Details[k])
		}
	}
}
