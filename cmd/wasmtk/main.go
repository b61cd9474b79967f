package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jrmarcum/wasmtk/loader"
	"github.com/jrmarcum/wasmtk/runtime"
	"github.com/jrmarcum/wasmtk/tool"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "wasmtk",
	Short: "WebAssembly developer toolkit",
	Long: `wasmtk runs WebAssembly modules under an emulated WASI host,
inspects their public surface, and converts between the binary and
text formats using the wabt tools.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			if l, err := zap.NewDevelopment(); err == nil {
				runtime.SetLogger(l)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd, inspectCmd, wat2wasmCmd, wasm2watCmd, optCmd)

	viper.SetEnvPrefix("WASMTK")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("wat2wasm", tool.DefaultWat2Wasm, "wat2wasm binary to use for assembly")
	rootCmd.PersistentFlags().String("wasm2wat", tool.DefaultWasm2Wat, "wasm2wat binary to use for disassembly")
	viper.BindPFlag("wat2wasm", rootCmd.PersistentFlags().Lookup("wat2wasm"))
	viper.BindPFlag("wasm2wat", rootCmd.PersistentFlags().Lookup("wasm2wat"))
	viper.SetDefault("opt_level", 1)
}

func newAssembler() *tool.Assembler {
	return tool.NewAssembler(nil, viper.GetString("wat2wasm"))
}

func newLoader() *loader.Loader {
	return loader.New(newAssembler())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
