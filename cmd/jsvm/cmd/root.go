package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jsvm",
	Short: "Embeddable JavaScript engine",
	Long: `go-jsvm is an embeddable JavaScript engine written in Go.

The engine pairs a tree-walking interpreter with a bytecode fast path:
  - Mark-and-sweep managed heap with weak collections
  - Promises, timers, and microtasks on a deterministic event loop
  - Classes, generators, proxies, and the iteration protocol
  - ES module loading with a per-context cache
  - A NaN-boxed stack VM for the statically decidable subset`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
