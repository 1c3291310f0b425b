package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitabwire/sonoctl/model"
)

var (
	listService string
	listGrep    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog operations",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listService, "service", "", "only operations of this service")
	listCmd.Flags().StringVar(&listGrep, "grep", "", "only operations whose name contains this substring (case-insensitive)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var ops []model.OperationSpec
	for _, op := range a.registry.Operations() {
		if listService != "" && !strings.EqualFold(op.Service, listService) {
			continue
		}
		if listGrep != "" && !strings.Contains(strings.ToLower(op.Name), strings.ToLower(listGrep)) {
			continue
		}
		ops = append(ops, op)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ops)
	}

	for _, op := range ops {
		fmt.Printf("%-40s %-22s %s\n", op.Name, op.Service, summarizeFields(op))
	}
	fmt.Printf("\n%d operations\n", len(ops))
	return nil
}

// summarizeFields renders the caller-facing parameter list, skipping the
// implicit instance_id.
func summarizeFields(op model.OperationSpec) string {
	var parts []string
	for _, f := range op.Fields {
		if f.Name == "instance_id" {
			continue
		}
		part := f.Name + ":" + f.Kind.String()
		if !f.Required {
			part += "?"
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
