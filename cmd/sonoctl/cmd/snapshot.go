package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitabwire/sonoctl/model"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write the resolved catalog as a JSON artifact",
	Long: `Writes the fully resolved catalog, operations with wire names plus the
service registry, as indented JSON. Useful for diffing catalog revisions and
for tooling that consumes the catalog without scanning definitions itself.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(snapshotCmd)
}

// catalogSnapshot is the artifact schema.
type catalogSnapshot struct {
	Version    string                       `json:"version"`
	Operations []model.OperationSpec        `json:"operations"`
	Services   map[string]model.ServiceInfo `json:"services"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	snap := catalogSnapshot{
		Version:    version,
		Operations: a.registry.Operations(),
		Services:   a.registry.Services(),
	}

	if snapshotOut == "" {
		return writeSnapshot(os.Stdout, snap)
	}

	f, err := os.Create(snapshotOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", snapshotOut, err)
	}
	if err := writeSnapshot(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", snapshotOut, err)
	}
	// A failed close can mean a truncated artifact, so it must surface.
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", snapshotOut, err)
	}
	return nil
}

func writeSnapshot(w io.Writer, snap catalogSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
