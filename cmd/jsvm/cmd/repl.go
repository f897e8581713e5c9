package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-jsvm/pkg/jsvm"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := jsvm.New(jsvm.WithRealtimeTimers(true))
		if err != nil {
			exitWithError("failed to create engine: %v", err)
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     "/tmp/.jsvm_history",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			exitWithError("failed to start readline: %v", err)
		}
		defer rl.Close()

		fmt.Printf("jsvm %s — type .exit to quit\n", Version)
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == ".exit" || line == "exit" {
				return
			}

			value, err := engine.EvalExpr(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := engine.RunMicrotasks(); err != nil {
				fmt.Println(err)
				continue
			}
			if !value.IsUndefined() {
				fmt.Println(value.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
