// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/bookfeed/internal/config"
	"github.com/jdfalk/bookfeed/internal/covers"
	"github.com/jdfalk/bookfeed/internal/database"
	"github.com/jdfalk/bookfeed/internal/server"
)

var cfgFile string
var databasePath string
var databaseType string
var enableSQLite bool
var coversDir string
var baseURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookfeed",
	Short: "Serve a book library as an OPDS catalog",
	Long: `Bookfeed serves a book library as an OPDS catalog that e-reader
apps can browse, search and download from.

It also exposes a small JSON API for bulk-editing book file qualities.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the feed server",
	Long:  `Start the HTTP server exposing the OPDS catalog and the book file editor API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initialize database
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		// File values fill in anything flags and env left unset
		if err := config.LoadConfigFromFile(); err != nil {
			fmt.Printf("Warning: could not load config file: %v\n", err)
		}

		if config.AppConfig.CoversDir == "" {
			config.AppConfig.CoversDir = filepath.Join(filepath.Dir(config.AppConfig.DatabasePath), "covers")
		}
		if err := os.MkdirAll(config.AppConfig.CoversDir, 0o755); err != nil {
			return fmt.Errorf("failed to create covers directory: %w", err)
		}

		// Persist the resolved settings so restarts work without flags
		if err := config.SaveConfigToFile(); err != nil {
			fmt.Printf("Warning: could not save config file: %v\n", err)
		}

		fmt.Println("Starting bookfeed server...")

		srv := server.NewServer(database.GlobalStore, covers.NewDiskLocalizer(config.AppConfig.CoversDir))
		cfg := server.ServerConfig{
			Host:         config.AppConfig.Host,
			Port:         config.AppConfig.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Override with command line flags if provided
		if port := cmd.Flag("port").Value.String(); port != "" {
			cfg.Port = port
		}
		if host := cmd.Flag("host").Value.String(); host != "" {
			cfg.Host = host
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog statistics",
	Long:  `Print counts of authors, books and book files in the catalog database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		authors, err := database.GlobalStore.CountAuthors()
		if err != nil {
			return fmt.Errorf("failed to count authors: %w", err)
		}
		books, err := database.GlobalStore.CountBooks()
		if err != nil {
			return fmt.Errorf("failed to count books: %w", err)
		}
		files, err := database.GlobalStore.CountFiles()
		if err != nil {
			return fmt.Errorf("failed to count files: %w", err)
		}

		fmt.Printf("Database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)
		fmt.Printf("Authors:    %d\n", authors)
		fmt.Printf("Books:      %d\n", books)
		fmt.Printf("Book files: %d\n", files)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bookfeed.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "bookfeed.pebble", "path to database (default: bookfeed.pebble for PebbleDB)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default) or sqlite")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&coversDir, "covers", "", "directory for locally cached cover images (default: covers next to database)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "external base URL for feed links (default: derived per request)")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))
	viper.BindPFlag("covers_dir", rootCmd.PersistentFlags().Lookup("covers"))
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)

	// Add serve command specific flags
	serveCmd.Flags().String("port", "", "port to run the web server on")
	serveCmd.Flags().String("host", "", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bookfeed")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// Ensure database directory exists
	if databasePath != "" {
		dbDir := filepath.Dir(databasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				fmt.Printf("Error creating database directory: %v\n", err)
			}
		}
	}

	config.InitConfig()
}
