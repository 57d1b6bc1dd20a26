package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memdb/pkg/memdb"
)

const modulePath = "github.com/mesh-intelligence/memdb"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the memdbctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "memdbctl v%s\nmodule: %s\n", memdb.Version, modulePath)
			return nil
		},
	}
}
