package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrmarcum/wasmtk/wasm"
)

var (
	optOut   string
	optLevel int
	optStrip []string
)

var optCmd = &cobra.Command{
	Use:   "opt <module>",
	Short: "Rewrite a module, stripping exports and metadata",
	Long: `opt rewrites a binary module in place of an external optimizer:
named exports are removed from the export table, and at optimization
level 1 and above custom sections (names, producers) are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bin, err := newLoader().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		level := optLevel
		if !cmd.Flags().Changed("opt-level") {
			level = viper.GetInt("opt_level")
		}

		out, err := wasm.Rewrite(bin, wasm.Options{
			DropExports: optStrip,
			OptLevel:    level,
		})
		if err != nil {
			return err
		}

		target := optOut
		if target == "" {
			target = replaceExt(args[0], ".opt.wasm")
		}
		return os.WriteFile(target, out, 0o644)
	},
}

func init() {
	optCmd.Flags().StringVarP(&optOut, "output", "o", "", "output path (default: input with .opt.wasm extension)")
	optCmd.Flags().IntVarP(&optLevel, "opt-level", "O", 1, "optimization level (0 disables custom-section stripping)")
	optCmd.Flags().StringArrayVar(&optStrip, "strip-export", nil, "export name to remove (repeatable)")
}
