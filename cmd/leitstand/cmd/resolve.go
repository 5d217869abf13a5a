package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/leitstand/internal/route"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <route>",
	Short: "Zeigt, wie eine Route aufgelöst wird",
	Long: `Normalisiert die Route, wendet die Whitelist und die Standardroute an
und zeigt die Seite, die der Hauptbereich rendern würde.

Beispiele:
  leitstand resolve '#/basic/wifi?tab=radio'
  leitstand resolve /unbekannt`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

type resolveOutput struct {
	Input      string            `json:"input"`
	Normalized string            `json:"normalized"`
	Route      route.Route       `json:"route"`
	Redirected bool              `json:"redirected"`
	Prefix     string            `json:"prefix"`
	Params     map[string]string `json:"params"`
	NotFound   bool              `json:"not_found"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	app, err := offlineApp(cmd.Context(), args[0], "")
	if err != nil {
		printError("Shell konnte nicht erstellt werden", err)
		return err
	}
	defer app.Close()

	current := app.Router.CurrentRoute()
	res := app.Composer.Resolve(current)
	_, redirects := app.Router.Stats()

	out := resolveOutput{
		Input:      args[0],
		Normalized: route.Normalize(args[0]),
		Route:      current,
		Redirected: redirects > 0,
		Prefix:     res.Prefix,
		Params:     res.Params,
		NotFound:   res.NotFound,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
