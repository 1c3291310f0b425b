package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitabwire/sonoctl/internal/discovery"
)

var devicesTimeout time.Duration

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Discover players on the local network",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func init() {
	devicesCmd.Flags().DurationVar(&devicesTimeout, "timeout", 0, "discovery listen window (default from config)")
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	timeout := devicesTimeout
	if timeout == 0 {
		timeout = a.cfg.Discovery.Timeout
	}

	devices, err := discovery.New(a.log).Discover(ctx, timeout)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(devices)
	}

	if len(devices) == 0 {
		fmt.Println("no devices found")
		return nil
	}
	for _, dev := range devices {
		fmt.Printf("%-20s %-20s %-16s %s\n", dev.RoomName, dev.ModelName, dev.IPAddress, dev.ID)
	}
	return nil
}
