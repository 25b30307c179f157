package cmd

import (
	"bytes"
	"fmt"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"github.com/axb35/ecfand/cmd/global"
	"github.com/axb35/ecfand/internal/api"
	"github.com/axb35/ecfand/internal/configuration"
	"github.com/axb35/ecfand/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current EC status and fan metrics",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		setupUi()
		configuration.LoadConfig()

		var status api.StatusResponse
		if err = fetchJson("/status", &status); err != nil {
			return err
		}

		if status.Status != 1 {
			ui.Error("EC is not answering")
			return nil
		}
		ui.Printfln("EC firmware version: %s", *status.Version)

		var metrics api.MetricsResponse
		if err = fetchJson("/metrics", &metrics); err != nil {
			return err
		}

		ui.Printfln("Power mode: %s", metrics.PowerMode)
		ui.Printfln("APU temperature: %d°C", metrics.Temperature)
		ui.Printfln("")

		fans := []api.FanMetrics{metrics.Fan1, metrics.Fan2, metrics.Fan3}
		rows := make([][]string, 0, len(fans))
		for idx, fan := range fans {
			rows = append(rows, []string{
				fmt.Sprintf("fan%d", idx+1),
				fan.Mode,
				fmt.Sprintf("%d", fan.Level),
				fmt.Sprintf("%d", fan.Rpm),
			})
		}

		tab := table.Table{
			Headers: []string{"Fan", "Mode", "Level", "RPM"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
