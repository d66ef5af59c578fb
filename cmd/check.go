package cmd

import (
	"fmt"
	"sort"

	"rackhost/feature/rack"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <rackup-file>",
	Short: "Validate a rackup descriptor",
	Long:  `Parses a rackup descriptor and prints the application it resolves to, including the environment the initializer would export.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := rack.LoadSpec(args[0])
		if err != nil {
			return err
		}

		init, err := rack.NewInitializer(spec.Root, spec.Env, spec.Path)
		if err != nil {
			return err
		}

		cmd.Printf("app:  %s\n", spec.App)
		cmd.Printf("root: %s\n", init.Root())
		if spec.Path != "" {
			cmd.Printf("path: %s\n", spec.Path)
		}

		vars := init.EnvVars()
		for k, v := range spec.EnvVars {
			vars[k] = v
		}
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Println("env:")
		for _, k := range keys {
			cmd.Println(fmt.Sprintf("  %s=%s", k, vars[k]))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
