package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/ble"
	"github.com/SeamusWaldron/smartcube/internal/config"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List nearby GoCube devices",
	Long: `Scan for GoCube devices over Bluetooth and print their names, addresses
and signal strength.

On macOS, BLE scanning sometimes requires multiple attempts. Make sure the
cube is not connected to another device (e.g., the phone app).`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var (
	scanTimeout   time.Duration
	deviceAddress string
)

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "Scan duration (default: config scan_timeout)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scanTimeout > 0 {
		cfg.ScanTimeout = scanTimeout
	}

	client, err := ble.NewClient()
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for GoCube devices (%s)...\n", cfg.ScanTimeout)
	results, err := client.Scan(cmd.Context(), cfg.ScanTimeout)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No devices found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-20s %s  RSSI %d dBm\n", r.Name, r.Address, r.RSSI)
	}
	return nil
}

// connectCube connects to address, or to the last used cube, or to the first
// one found. The chosen address is remembered in the config file.
func connectCube(ctx context.Context, cfg *config.Config, address string, log *slog.Logger) (*ble.Client, error) {
	client, err := ble.NewClient()
	if err != nil {
		return nil, fmt.Errorf("BLE not available: %w", err)
	}

	if address == "" {
		address = cfg.Device.Address
	}
	if address != "" {
		log.Info("connecting", "address", address)
		if err := client.ConnectAddress(ctx, address, cfg.ScanTimeout); err != nil {
			return nil, err
		}
		return client, nil
	}

	log.Info("scanning for GoCube devices", "timeout", cfg.ScanTimeout)
	results, err := client.Scan(ctx, cfg.ScanTimeout)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, smartcube.ErrDeviceNotFound
	}

	target := results[0]
	log.Info("connecting", "name", target.Name, "address", target.Address)
	if err := client.Connect(ctx, target); err != nil {
		return nil, err
	}

	cfg.Device.Address = target.Address
	if path, err := resolveConfigPath(); err == nil {
		if err := config.Save(path, cfg); err != nil {
			log.Warn("could not remember device", "err", err)
		}
	}
	return client, nil
}
