package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memdb/pkg/engine"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize memdbctl configuration",
		Long:  "Create the configuration directory with a default config.yaml and verify it.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("initialize config: %s", err))
	}

	// Verify the configuration by opening and closing a connection.
	conn, err := engine.Open(connConfig(v))
	if err != nil {
		return exitError(cmd, exitUserError, fmt.Sprintf("verify config: %s", err))
	}
	if err := conn.Close(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("close connection: %s", err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Memdbctl initialized successfully")
	return nil
}
