// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/pebble/v2"
	"github.com/spf13/cobra"

	"github.com/jdfalk/bookfeed/internal/config"
	"github.com/jdfalk/bookfeed/internal/database"
	"github.com/jdfalk/bookfeed/internal/models"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting and repairing the catalog database.",
	}

	cleanupCmd = &cobra.Command{
		Use:   "cleanup-missing",
		Short: "Remove book file records whose files are gone from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runCleanupMissingFiles(force, dryRun)
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored book records",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")
			raw, _ := cmd.Flags().GetBool("raw")
			return runDiagnosticsQuery(limit, prefix, raw)
		},
	}
)

func init() {
	cleanupCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	cleanupCmd.Flags().Bool("dry-run", false, "List missing files without deleting their records")

	queryCmd.Flags().Int("limit", 5, "Number of records to display")
	queryCmd.Flags().String("prefix", "book:", "Key prefix to inspect when --raw is set")
	queryCmd.Flags().Bool("raw", false, "Show raw Pebble key/value data (Pebble only)")

	diagnosticsCmd.AddCommand(cleanupCmd)
	diagnosticsCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func ensureDiagnosticsStore() (func(), error) {
	if err := database.InitializeStore(
		config.AppConfig.DatabaseType,
		config.AppConfig.DatabasePath,
		config.AppConfig.EnableSQLite,
	); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		database.CloseStore()
	}
	return cleanup, nil
}

// forEachBook pages through the whole catalog in structural order
func forEachBook(fn func(book models.Book) error) error {
	const batchSize = 500
	page := 1
	for {
		spec := &models.PagingSpec{Page: page, PageSize: batchSize}
		books, err := database.GlobalStore.QueryBooks(spec)
		if err != nil {
			return fmt.Errorf("failed to fetch books: %w", err)
		}
		if len(books) == 0 {
			return nil
		}
		for _, book := range books {
			if err := fn(book); err != nil {
				return err
			}
		}
		if len(books) < batchSize {
			return nil
		}
		page++
	}
}

func runCleanupMissingFiles(force, dryRun bool) error {
	closer, err := ensureDiagnosticsStore()
	if err != nil {
		return err
	}
	defer closer()

	fmt.Printf("Inspecting book files in %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

	missing := make([]models.BookFile, 0)
	err = forEachBook(func(book models.Book) error {
		files, err := database.GlobalStore.GetFilesByBook(book.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch files for %s: %w", book.ID, err)
		}
		for _, file := range files {
			if _, statErr := os.Stat(file.Path); os.IsNotExist(statErr) {
				missing = append(missing, file)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(missing) == 0 {
		fmt.Println("No missing book files detected.")
		return nil
	}

	fmt.Printf("Found %d records pointing at missing files:\n", len(missing))
	for i, file := range missing {
		fmt.Printf("%2d. ID: %s\n", i+1, file.ID)
		fmt.Printf("    Book: %s\n", file.BookID)
		fmt.Printf("    Path: %s\n", file.Path)
	}

	if dryRun {
		fmt.Println("Dry run enabled; no deletions were performed.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(fmt.Sprintf("Delete %d records", len(missing)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted. No records deleted.")
			return nil
		}
	}

	ids := make([]string, 0, len(missing))
	for _, file := range missing {
		ids = append(ids, file.ID)
	}
	if err := database.GlobalStore.DeleteBookFiles(ids); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}

	fmt.Printf("Deleted %d stale records.\n", len(ids))
	return nil
}

func runDiagnosticsQuery(limit int, prefix string, raw bool) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	if raw {
		if config.AppConfig.DatabaseType != "pebble" {
			return fmt.Errorf("raw inspection is only available for Pebble databases")
		}
		return runRawPebbleQuery(limit, prefix)
	}

	closer, err := ensureDiagnosticsStore()
	if err != nil {
		return err
	}
	defer closer()

	spec := &models.PagingSpec{Page: 1, PageSize: limit}
	books, err := database.GlobalStore.QueryBooks(spec)
	if err != nil {
		return fmt.Errorf("failed to fetch books: %w", err)
	}
	if len(books) == 0 {
		fmt.Println("No books found.")
		return nil
	}

	for i, book := range books {
		fmt.Printf("%2d. ID: %s\n", i+1, book.ID)
		fmt.Printf("    Title: %s\n", book.Title)
		fmt.Printf("    AuthorID: %d\n", book.AuthorID)
		fmt.Printf("    Editions: %d\n", len(book.Editions))
		fmt.Println("---")
	}

	return nil
}

func runRawPebbleQuery(limit int, prefix string) error {
	db, err := pebble.Open(config.AppConfig.DatabasePath, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	ok := iter.First()
	if prefix != "" {
		ok = iter.SeekGE([]byte(prefix))
	}

	for ; ok && iter.Valid(); ok = iter.Next() {
		fmt.Printf("Key: %s\n", string(iter.Key()))
		val := iter.Value()
		fmt.Printf("Value length: %d bytes\n", len(val))
		preview := truncateString(string(val), 500)
		fmt.Printf("Value preview: %s\n", preview)
		fmt.Println("---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}

	if count == 0 {
		fmt.Println("No keys matched the requested prefix.")
	}

	return nil
}

func promptYesNo(action string) (bool, error) {
	fmt.Printf("%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
