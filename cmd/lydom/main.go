package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lydom/dom"
	"lydom/internal/logging"
	"lydom/lang/lily"
	"lydom/tokens"
	"lydom/transform"
)

var (
	// Global flags
	debugMode bool
	logLevel  string
	logFile   string

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lydom",
	Short: "lydom - semantic editing for music notation sources",
	Long: `lydom parses music notation source into a semantic element tree,
lets that tree be mutated, and writes the mutation back as the minimal
set of text edits against the original source.

The element tree keeps the byte range every piece of text came from, so
untouched notation survives edits byte for byte, comments and layout
included.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Config{
			Debug: debugMode,
			Level: logLevel,
			File:  logFile,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
}

// openFile parses a notation file and builds its element tree.
func openFile(path string) ([]byte, *tokens.Tree, *dom.Element, *transform.Builder, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree := lily.Parse(source)
	b := lily.NewBuilder(transform.WithLogger(logging.Category(logger, logging.CategoryTransform)))
	root, err := b.Build(tree)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("building tree for %s: %w", path, err)
	}
	return source, tree, root, b, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
