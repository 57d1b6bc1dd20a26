package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/mesh-intelligence/memdb/pkg/engine"
	"github.com/mesh-intelligence/memdb/pkg/types"
)

func newCloneCmd() *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "clone <src> <dst>",
		Short: "Rewrite a database image through an in-memory connection",
		Long: "Clone loads a database image into an in-memory connection, serializes\n" +
			"it back out, and writes the result to a new file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(cmd, args, compress)
		},
	}
	cmd.Flags().BoolVar(&compress, "compress", false, "xz-compress the output image")
	return cmd
}

func runClone(cmd *cobra.Command, args []string, compress bool) error {
	v, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
	}
	if !cmd.Flags().Changed("compress") {
		compress = v.GetBool(cfgKeyCompress)
	}

	data, err := readImage(args[0])
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("read image: %s", err))
	}

	conn, err := engine.Open(connConfig(v))
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer conn.Close()

	if err := conn.Deserialize(types.SchemaMain, data); err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	out, err := conn.Serialize(types.SchemaMain)
	if err != nil {
		return fmt.Errorf("serialize image: %w", err)
	}

	if err := writeImage(args[1], out, compress); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write image: %s", err))
	}

	sum := blake3.Sum256(out)
	lgr.Printf("[DEBUG] clone digest %s", hex.EncodeToString(sum[:]))
	fmt.Fprintf(cmd.OutOrStdout(), "cloned %s -> %s (%d bytes)\n", args[0], args[1], len(out))
	return nil
}
