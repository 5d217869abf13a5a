package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/leitstand/pkg/core/config"
	"github.com/msto63/leitstand/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	cfg     *config.Config
	logFile *logging.FileWriter
)

var rootCmd = &cobra.Command{
	Use:   "leitstand",
	Short: "Leitstand - Dashboard-Shell für das Terminal",
	Long: `Leitstand ist eine Dashboard-Shell für das Terminal.

Die Oberfläche besteht aus Kopfzeile, Seitenleiste und Hauptbereich.
Die Navigation erfolgt über Routen wie /basic/network oder /advanced?mode=x.

Befehle:
  tui      - Interaktive Oberfläche
  resolve  - Zeigt, wie eine Route aufgelöst wird
  render   - Rendert eine Route ohne Terminal-UI
  store    - Persistente Einstellungen anzeigen und löschen
  check    - Selbsttest
  version  - Versionsinformationen`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml, $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-Ausgabe auf stderr")
}

// setup loads the configuration and configures the root logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		printError("Konfiguration konnte nicht geladen werden", err)
		return err
	}

	lc := logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		Output:      io.Discard,
	}
	if verbose {
		lc.Level = "debug"
		lc.Output = os.Stderr
	}
	if cfg.General.LogFile != "" {
		fw, err := logging.NewFileWriter(logging.FileWriterConfig{Path: cfg.General.LogFile})
		if err != nil {
			// the shell still works without a log file
			printError("Log-Datei nicht verfügbar", err)
		} else {
			logFile = fw
			lc.AdditionalOutputs = []io.Writer{fw}
		}
	}
	logging.Configure(lc)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
