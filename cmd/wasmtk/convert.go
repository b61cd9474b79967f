package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrmarcum/wasmtk/tool"
)

var (
	wat2wasmOut string
	wasm2watOut string
)

var wat2wasmCmd = &cobra.Command{
	Use:   "wat2wasm <module.wat>",
	Short: "Assemble text format into a binary module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := wat2wasmOut
		if out == "" {
			out = replaceExt(args[0], ".wasm")
		}
		return newAssembler().Assemble(cmd.Context(), args[0], out)
	},
}

var wasm2watCmd = &cobra.Command{
	Use:   "wasm2wat <module.wasm>",
	Short: "Disassemble a binary module into text format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := tool.NewDisassembler(nil, viper.GetString("wasm2wat"))
		text, err := d.Disassemble(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if wasm2watOut == "" {
			fmt.Print(text)
			return nil
		}
		return os.WriteFile(wasm2watOut, []byte(text), 0o644)
	},
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		return path[:i] + ext
	}
	return path + ext
}

func init() {
	wat2wasmCmd.Flags().StringVarP(&wat2wasmOut, "output", "o", "", "output path (default: input with .wasm extension)")
	wasm2watCmd.Flags().StringVarP(&wasm2watOut, "output", "o", "", "output path (default: stdout)")
}
