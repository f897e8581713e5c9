package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-jsvm/internal/bytecode"
	"github.com/cwbudde/go-jsvm/internal/parser"
)

var (
	compileDisasm   bool
	compileOptimize bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <script.js>",
	Short: "Compile a script to bytecode and report whether the VM can run it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError("failed to read %s: %v", args[0], err)
		}
		program, err := parser.Parse(string(source))
		if err != nil {
			exitWithError("%v", err)
		}

		chunk := bytecode.Compile(program)
		if chunk.RequiresTreeWalk {
			fmt.Println("program requires tree-walk execution (outside the bytecode subset)")
			return
		}
		if compileOptimize {
			bytecode.Optimize(chunk)
		}
		if compileDisasm {
			fmt.Print(bytecode.Disassemble(chunk, args[0]))
			return
		}
		fmt.Printf("compiled %d instructions, %d constants\n", len(chunk.Code), len(chunk.Constants))
	},
}

func init() {
	compileCmd.Flags().BoolVar(&compileDisasm, "disasm", false, "print the disassembled chunk")
	compileCmd.Flags().BoolVar(&compileOptimize, "optimize", false, "run optimizer passes before output")
	rootCmd.AddCommand(compileCmd)
}
