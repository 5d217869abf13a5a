package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	renderLang string
	renderJSON bool
)

var renderCmd = &cobra.Command{
	Use:   "render <route>",
	Short: "Rendert eine Route ohne Terminal-UI",
	Long: `Rendert Kopfzeile, Seitenleiste und Hauptbereich für eine Route und gibt
das Ergebnis aus. Gespeicherte Einstellungen werden weder gelesen noch
geändert.

Beispiele:
  leitstand render /status
  leitstand render /basic/time --lang de
  leitstand render '/advanced?a=1' --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderLang, "lang", "", "Sprache (z.B. de, es)")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Ausgabe als JSON")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	app, err := offlineApp(cmd.Context(), args[0], renderLang)
	if err != nil {
		printError("Shell konnte nicht erstellt werden", err)
		return err
	}
	defer app.Close()

	frame := app.Frame()
	if renderJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	}

	fmt.Println(frame.Header)
	fmt.Println()
	fmt.Println(frame.Sidebar)
	fmt.Println()
	fmt.Println(frame.Main)
	return nil
}
