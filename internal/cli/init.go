package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deadscope/internal/storage"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty symbol graph database",
	Long: `Init creates the SQLite database and schema the language extractors
write into. Running init on an existing database is safe: the schema is
created with IF NOT EXISTS and existing data is untouched.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := viper.GetString("db")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.CreateSchema(db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	version, err := storage.GetSchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	fmt.Printf("Initialized graph store at %s (schema %s)\n", path, version)
	return nil
}
