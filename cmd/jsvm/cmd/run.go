package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-jsvm/pkg/jsvm"
)

var (
	runUseVM     bool
	runOptimize  bool
	runVirtual   bool
	runStepLimit int
	runAsModule  bool
)

var runCmd = &cobra.Command{
	Use:   "run <script.js>",
	Short: "Run a JavaScript file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		engine, err := jsvm.New(
			jsvm.WithVM(runUseVM),
			jsvm.WithOptimize(runOptimize),
			jsvm.WithRealtimeTimers(!runVirtual),
			jsvm.WithStepLimit(runStepLimit),
		)
		if err != nil {
			exitWithError("failed to create engine: %v", err)
		}

		if runAsModule || strings.HasSuffix(path, ".mjs") {
			if _, err := engine.EvalModule(path); err != nil {
				exitWithError("%v", err)
			}
			return
		}

		source, err := os.ReadFile(path)
		if err != nil {
			exitWithError("failed to read %s: %v", path, err)
		}
		if _, err := engine.Eval(string(source)); err != nil {
			exitWithError("%v", err)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&runUseVM, "vm", false, "use the bytecode VM fast path when possible")
	runCmd.Flags().BoolVar(&runOptimize, "optimize", false, "run optimizer passes over compiled chunks")
	runCmd.Flags().BoolVar(&runVirtual, "virtual-time", false, "snap timers to due times without sleeping")
	runCmd.Flags().IntVar(&runStepLimit, "step-limit", 0, "abort after this many statements (0 = unlimited)")
	runCmd.Flags().BoolVar(&runAsModule, "module", false, "evaluate the file as an ES module")
	rootCmd.AddCommand(runCmd)
}
