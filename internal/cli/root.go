// Package cli wires the deadscope commands.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deadscope/internal/rules"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deadscope",
	Short: "Deadscope - dead code detection over an extracted symbol graph",
	Long: `Deadscope analyzes the symbol/dependency graph that the language
extractors write into a SQLite store and reports symbols that are
plausibly dead: never called, never referenced, and not excluded by
framework, test, or API-surface heuristics.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.deadscope.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".deadscope/graph.db", "path to the symbol graph database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".deadscope" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".deadscope")
	}

	viper.SetEnvPrefix("DEADSCOPE")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// openDB opens the graph store with foreign keys enabled.
func openDB() (*sql.DB, error) {
	path := viper.GetString("db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// loadRules builds the rule configuration: built-in tables, optionally
// extended by a `rules:` section in the config file.
func loadRules() (*rules.Config, error) {
	cfg := rules.Default()

	if !viper.IsSet("rules") {
		return cfg, nil
	}

	var overlay map[string]rules.RawRuleSet
	if err := viper.UnmarshalKey("rules", &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse rules config: %w", err)
	}
	return cfg.Merge(overlay)
}
