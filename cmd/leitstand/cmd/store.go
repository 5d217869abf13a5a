package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/leitstand/internal/storage"
	"github.com/msto63/leitstand/pkg/core/logging"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Persistente Einstellungen anzeigen und löschen",
}

var storeKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Listet alle Schlüssel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Store) error {
			for _, k := range s.Keys() {
				fmt.Println(k)
			}
			return nil
		})
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Zeigt den Wert eines Schlüssels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Store) error {
			for _, k := range s.Keys() {
				if k == args[0] {
					fmt.Println(s.Get(k, ""))
					return nil
				}
			}
			return fmt.Errorf("Schlüssel nicht gefunden: %s", args[0])
		})
	},
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Löscht alle Einstellungen dieses Namensraums",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Store) error {
			n := len(s.Keys())
			if !s.ClearAll() {
				return fmt.Errorf("nicht alle Schlüssel konnten gelöscht werden")
			}
			fmt.Printf("%d Schlüssel gelöscht\n", n)
			return nil
		})
	},
}

func init() {
	storeCmd.AddCommand(storeKeysCmd, storeGetCmd, storeClearCmd)
	rootCmd.AddCommand(storeCmd)
}

func withStore(fn func(*storage.Store) error) error {
	s := storage.Open(storage.Config{
		Backend:   cfg.Storage.Backend,
		Path:      cfg.Storage.Path,
		Namespace: cfg.Storage.Namespace,
	}, logging.New("storage"))
	defer s.Close()

	if s.Degraded() {
		err := fmt.Errorf("Speicher %q nicht verfügbar", cfg.Storage.Backend)
		printError("store", err)
		return err
	}
	return fn(s)
}
