package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fmtWrite bool

// fmtCmd reserializes a file from its element tree, normalizing
// whitespace to the grammar's spacing rules.
var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Reserialize a notation file from its element tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the file instead of stdout")
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	_, _, root, _, err := openFile(path)
	if err != nil {
		return err
	}
	out := root.Write()
	if !fmtWrite {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
