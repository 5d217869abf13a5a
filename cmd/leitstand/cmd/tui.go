package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/shell"
	"github.com/msto63/leitstand/internal/tui"
	"github.com/msto63/leitstand/pkg/core/logging"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [route]",
	Short: "Startet die interaktive Oberfläche",
	Long: `Startet die Terminal-Oberfläche von Leitstand.

Navigation:
  ↑/↓, j/k  - Cursor in der Seitenleiste
  Enter     - Seite öffnen bzw. Gruppe auf-/zuklappen
  Leertaste - Gruppe auf-/zuklappen
  [ / ]     - Zurück / Vorwärts
  g         - Adresszeile
  L         - Sprache wechseln
  q         - Beenden`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initial := ""
	if len(args) == 1 {
		initial = args[0]
	}

	app, err := shell.New(shell.Options{
		Config:   cfg,
		Location: router.NewMemoryLocation(initial),
		Locale:   i18n.EnvLocale{},
		Logger:   logging.New("shell"),
	})
	if err != nil {
		printError("Shell konnte nicht erstellt werden", err)
		return err
	}
	defer app.Close()

	app.Start(ctx)
	if err := tui.Run(ctx, app); err != nil {
		printError("TUI Fehler", err)
		return err
	}
	return nil
}
