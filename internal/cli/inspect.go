package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/mesh-intelligence/memdb/pkg/engine"
	"github.com/mesh-intelligence/memdb/pkg/types"
)

// inspectReport is the inspect command output, printed as text or JSON.
type inspectReport struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	PageSize  int    `json:"page_size"`
	PageCount int64  `json:"page_count"`
	Digest    string `json:"digest"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image>",
		Short: "Print header fields and a digest for a database image",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	v, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
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

	pageSize, err := conn.PageSize(types.SchemaMain)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	pageCount, err := conn.PageCount(types.SchemaMain)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	sum := blake3.Sum256(data)
	report := inspectReport{
		Path:      args[0],
		Size:      int64(len(data)),
		PageSize:  pageSize,
		PageCount: pageCount,
		Digest:    hex.EncodeToString(sum[:]),
	}
	lgr.Printf("[DEBUG] inspected %s: %d pages of %d bytes", report.Path, report.PageCount, report.PageSize)

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:       %s\n", report.Path)
	fmt.Fprintf(out, "size:       %d bytes\n", report.Size)
	fmt.Fprintf(out, "page size:  %d\n", report.PageSize)
	fmt.Fprintf(out, "page count: %d\n", report.PageCount)
	fmt.Fprintf(out, "blake3:     %s\n", report.Digest)
	return nil
}
