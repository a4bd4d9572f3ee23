package cmd

import (
	"cafes/database"
	"cafes/spreadsheet"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cafes migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and cafes tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := bootDB(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Tables are up to date.")
		return nil
	},
}

// cafes import <file.xlsx>
var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Add the cafes listed in a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootDB()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		cafes, skipped, err := spreadsheet.Read(f)
		if err != nil {
			return err
		}
		created, err := database.NewCafeStore(db).CreateMany(cmd.Context(), cafes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cafes, skipped %d rows\n", created, skipped)
		return nil
	},
}

// cafes export <file.xlsx>
var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write the whole catalogue to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootDB()
		if err != nil {
			return err
		}

		cafes, err := database.NewCafeStore(db).All(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := spreadsheet.Write(f, cafes); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cafes to %s\n", len(cafes), args[0])
		return nil
	},
}
