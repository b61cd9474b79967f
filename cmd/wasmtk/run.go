package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrmarcum/wasmtk/runtime"
	"github.com/jrmarcum/wasmtk/wasi"
)

var (
	invokeName string
	invokeArgs []string
	runEnvKVs  []string
	runArgv    []string
	runStdin   string
)

var runCmd = &cobra.Command{
	Use:   "run <module>",
	Short: "Execute a module's entry point or a named export",
	Long: `run instantiates the module under the emulated WASI host and
executes its default entry point (_initialize or _start). With --invoke,
a named export is called instead; string arguments are coerced to the
export's parameter types.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		bin, err := newLoader().Load(ctx, args[0])
		if err != nil {
			return err
		}

		env := wasi.NewEnvironment()
		if len(runArgv) > 0 {
			env.WithArgs(runArgv...)
		}
		if len(runEnvKVs) > 0 {
			vars := make(map[string]string, len(runEnvKVs))
			for _, kv := range runEnvKVs {
				if k, v, ok := strings.Cut(kv, "="); ok {
					vars[k] = v
				}
			}
			env.WithEnv(vars)
		}
		if runStdin != "" {
			env.WithStdin(strings.NewReader(runStdin))
		}

		rt, err := runtime.New(ctx, env)
		if err != nil {
			return err
		}
		defer rt.Close(ctx)

		inst, err := rt.Instantiate(ctx, bin)
		if err != nil {
			return err
		}

		if invokeName != "" {
			_, err = inst.Invoke(ctx, invokeName, invokeArgs)
			return err
		}
		return inst.Run(ctx)
	},
}

func init() {
	runCmd.Flags().StringVar(&invokeName, "invoke", "", "named export to call instead of the entry point")
	runCmd.Flags().StringArrayVar(&invokeArgs, "arg", nil, "argument for --invoke (repeatable)")
	runCmd.Flags().StringArrayVar(&runEnvKVs, "env", nil, "guest environment variable KEY=VALUE (repeatable)")
	runCmd.Flags().StringArrayVar(&runArgv, "argv", nil, "guest argument (repeatable)")
	runCmd.Flags().StringVar(&runStdin, "stdin", "", "data served as guest standard input")
}
