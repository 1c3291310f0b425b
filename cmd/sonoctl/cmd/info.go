package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitabwire/sonoctl/model"
)

var infoCmd = &cobra.Command{
	Use:   "info <operation>",
	Short: "Show one operation in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	spec, ok := a.registry.Resolve(args[0])
	if !ok {
		return model.NewNotFoundError(args[0], a.registry.KnownNames(10))
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	}

	fmt.Printf("Operation: %s\n", spec.Name)
	fmt.Printf("Action:    %s\n", spec.Action)
	fmt.Printf("Service:   %s\n", spec.Service)
	if svc, ok := a.registry.Service(spec.Service); ok {
		fmt.Printf("Endpoint:  %s\n", svc.Endpoint)
		fmt.Printf("Namespace: %s\n", svc.ServiceURI)
	}
	if spec.SourceFile != "" {
		fmt.Printf("Source:    %s\n", spec.SourceFile)
	}
	fmt.Println("Fields:")
	for _, f := range spec.Fields {
		required := "required"
		if !f.Required {
			required = "optional"
		}
		fmt.Printf("  %-28s %-8s %-8s -> %s\n", f.Name, f.Kind, required, f.WireName)
	}
	return nil
}
