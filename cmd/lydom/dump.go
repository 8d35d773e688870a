package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dumpCmd prints the element tree of a file.
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the element tree for a notation file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	_, _, root, _, err := openFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), root.Dump())
	return nil
}
