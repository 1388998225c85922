package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"runcoach/internal/fitimport"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Import runs from a directory of .fit files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			importer := fitimport.NewImporter(db)
			result, err := importer.ImportDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Scanned %d files: %d imported, %d skipped.\n",
				result.Files, result.Imported, result.Skipped)
			for _, e := range result.Errors {
				fmt.Println("  warning:", e)
			}
			if result.Imported > 0 {
				fmt.Println("Run `runcoach process` to compute metrics.")
			}
			return nil
		},
	}
}
