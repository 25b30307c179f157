package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/axb35/ecfand/internal/api"
	"github.com/axb35/ecfand/internal/configuration"
	"github.com/axb35/ecfand/internal/ui"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the fan curve(s) to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		setupUi()
		configuration.LoadConfig()

		var metrics api.MetricsResponse
		if err = fetchJson("/metrics", &metrics); err != nil {
			return err
		}

		fans := []api.FanMetrics{metrics.Fan1, metrics.Fan2, metrics.Fan3}
		for idx, fan := range fans {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}
			ui.Printfln("fan%d (mode: %s)", idx+1, fan.Mode)
			printCurveGraph("ramp-up", fan.RampupCurve)
			printCurveGraph("ramp-down", fan.RampdownCurve)
		}

		return nil
	},
}

// printCurveGraph renders the level the curve yields for every temperature
// from 0 to 100°C as a staircase.
func printCurveGraph(name string, curve [5]uint8) {
	values := make([]float64, 0, 101)
	for temp := 0; temp <= 100; temp++ {
		level := 0
		for idx := len(curve) - 1; idx >= 0; idx-- {
			if uint8(temp) >= curve[idx] {
				level = idx + 1
				break
			}
		}
		values = append(values, float64(level))
	}

	caption := fmt.Sprintf("%s: level / °C", name)
	graph := asciigraph.Plot(values, asciigraph.Height(5), asciigraph.Width(100), asciigraph.Caption(caption))
	ui.Printfln(graph)
}

func init() {
	rootCmd.AddCommand(curveCmd)
}
