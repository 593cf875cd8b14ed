package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	flags := &globalFlags{}
	if err := buildRootCmd(flags).Execute(); err != nil {
		printError(os.Stderr, err, flags.errorFormat)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	errorFormat string
}

// printError writes err in the given format: "pretty" (default),
// "compact" or "json".
func printError(w io.Writer, err error, format string) {
	var te *verrors.TreeError
	if !stderrors.As(err, &te) {
		te = verrors.Newf(verrors.CategoryCLI, "%s", err)
	}

	switch format {
	case "json":
		fmt.Fprintln(w, te.FormatJSON())
	case "compact":
		fmt.Fprintln(w, te.FormatCompact())
	default:
		verrors.PrintError(w, te)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&globalFlags{})
}

func buildRootCmd(flags *globalFlags) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "vtree",
		Short: "Play declarative UI scenes against the vtree reconciler",
		Long: `vtree mounts, updates and unmounts declarative element trees.

Scenes are YAML files describing components and the steps to apply.
Each step is reconciled against the previous tree and the resulting
host operations are printed or streamed:

  • run    apply a scene and print ops and the final tree
  • serve  step through a scene from an HTTP inspector
  • config manage vtree.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to vtree.yaml (default: nearest in parent directories)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format override (text, json)")
	rootCmd.PersistentFlags().StringVar(&flags.errorFormat, "error-format", "pretty", "Error output format (pretty, compact, json)")

	rootCmd.AddCommand(
		runCmd(flags),
		serveCmd(flags),
		configCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
