package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitabwire/sonoctl/internal/client"
	"github.com/pitabwire/sonoctl/internal/engine"
	"github.com/pitabwire/sonoctl/model"
)

var (
	execParams  []string
	execPort    int
	execTimeout time.Duration
)

var execCmd = &cobra.Command{
	Use:   "exec <operation> <host>",
	Short: "Execute an operation against a device",
	Long: `Executes a catalog operation against the device at <host>.

Parameters are passed as repeated -p key=value flags. Values consisting only
of digits are treated as integers, "true" and "false" as booleans, and
everything else as strings. instance_id defaults to 0 when omitted.

Examples:
  sonoctl exec Play 192.168.1.50
  sonoctl exec SetVolume 192.168.1.50 -p channel=Master -p desired_volume=25
  sonoctl exec seek 192.168.1.50 -p unit=REL_TIME -p target=0:02:30`,
	Args: cobra.ExactArgs(2),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringArrayVarP(&execParams, "param", "p", nil, "operation parameter as key=value (repeatable)")
	execCmd.Flags().IntVar(&execPort, "port", 0, "device control port (default from config)")
	execCmd.Flags().DurationVar(&execTimeout, "timeout", 0, "request timeout (default from config)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	params, err := parseParams(execParams)
	if err != nil {
		return err
	}

	port := execPort
	if port == 0 {
		port = a.cfg.Device.Port
	}
	timeout := execTimeout
	if timeout == 0 {
		timeout = a.cfg.Device.Timeout
	}

	eng := engine.New(a.registry, client.New(a.log), a.log)
	result, err := eng.Execute(ctx, engine.Request{
		Operation: args[0],
		Host:      args[1],
		Port:      port,
		Params:    params,
		Timeout:   timeout,
	})
	if err != nil {
		return printFailure(err)
	}

	return printResult(result)
}

// parseParams converts repeated key=value flags into a parameter map with
// light type inference.
func parseParams(pairs []string) (model.ParameterMap, error) {
	params := make(model.ParameterMap, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params[key] = inferValue(value)
	}
	return params, nil
}

func inferValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil && s != "" {
		return n
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func printResult(result model.ExecutionResult) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("%s succeeded\n", result.Operation)
	if len(result.Fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, result.Fields[name])
	}
	return nil
}

// printFailure emits the structured failure on stdout when JSON output is
// requested, then returns the error for the usual stderr report and exit code.
func printFailure(err error) error {
	if jsonOut {
		if callErr, ok := err.(*model.CallError); ok {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(callErr)
		}
	}
	return err
}
