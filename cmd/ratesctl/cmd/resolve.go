package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/store"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <identifier>",
	Short: "Show the ports a port code or region slug covers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		cache := hierarchy.NewCache(store.NewPostgres(e.db), e.log)
		match, err := cache.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printf(out, "%s (%s)\n", match.Identifier, match.Kind)
		if len(match.Regions) > 0 {
			printf(out, "regions: %s\n", strings.Join(match.Regions, ", "))
		}
		printf(out, "ports (%d): %s\n", len(match.Ports), strings.Join(match.Ports, ", "))
		return nil
	},
}
