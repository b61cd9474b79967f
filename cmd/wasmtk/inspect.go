package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jrmarcum/wasmtk/errors"
	"github.com/jrmarcum/wasmtk/inspect"
	"github.com/jrmarcum/wasmtk/wasm"
)

var inspectInteractive bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <module>",
	Short: "Report a module's public functions and WASI usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		bin, err := newLoader().Load(ctx, args[0])
		if err != nil {
			return err
		}
		mod, err := wasm.ParseModule(bin)
		if err != nil {
			return err
		}
		report := inspect.Analyze(mod, nil)

		if inspectInteractive {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.Unsupported(errors.PhaseInspect, "interactive mode requires a terminal")
			}
			return runInteractive(args[0], bin, report)
		}

		fmt.Print(report.Render())
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectInteractive, "interactive", "i", false, "browse and call exports in a TUI")
}
