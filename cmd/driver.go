package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axb35/ecfand/internal/configuration"
	"github.com/axb35/ecfand/internal/driver"
	"github.com/axb35/ecfand/internal/ui"
)

var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Manage the WinRing0 port I/O driver",
}

var driverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the WinRing0 driver is loaded",
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		configuration.LoadConfig()

		manager := driver.NewManager(configuration.CurrentConfig.DriverDir)
		if manager.IsLoaded() {
			ui.Printfln("loaded")
		} else {
			ui.Printfln("not loaded")
		}
	},
}

var driverUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop and remove the WinRing0 driver service",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupUi()
		configuration.LoadConfig()

		manager := driver.NewManager(configuration.CurrentConfig.DriverDir)
		if err := manager.Delete(); err != nil {
			return err
		}
		ui.Info("Driver service removed")
		return nil
	},
}

func init() {
	driverCmd.AddCommand(driverStatusCmd)
	driverCmd.AddCommand(driverUninstallCmd)
	rootCmd.AddCommand(driverCmd)
}
