package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/axb35/ecfand/internal/ec"
	"github.com/axb35/ecfand/internal/ui"
)

func TemperatureKey() string {
	return "apu_temperature"
}

func FanRpmKey(fanID int) string {
	return fmt.Sprintf("fan%d_rpm", fanID)
}

func FanLevelKey(fanID int) string {
	return fmt.Sprintf("fan%d_level", fanID)
}

// Poller periodically samples the EC through the command queue and feeds
// the shared stats store.
type Poller struct {
	commands    *ec.CommandQueue
	stats       *Stats
	pollingRate time.Duration
}

func NewPoller(commands *ec.CommandQueue, stats *Stats, pollingRate time.Duration) *Poller {
	return &Poller{
		commands:    commands,
		stats:       stats,
		pollingRate: pollingRate,
	}
}

func (p *Poller) Run(ctx context.Context) error {
	tick := time.Tick(p.pollingRate)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			p.pollOnce()
		}
	}
}

func (p *Poller) pollOnce() {
	result, err := p.commands.Submit(ec.GetApuTemperature())
	if err != nil {
		ui.Debug("Stats polling: %v", err)
		return
	}
	p.stats.Set(TemperatureKey(), float64(result.Temperature))

	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		result, err := p.commands.Submit(ec.GetFanRpm(fanID))
		if err != nil {
			ui.Debug("Stats polling fan%d rpm: %v", fanID, err)
			continue
		}
		p.stats.Record(FanRpmKey(fanID), float64(result.Rpm))

		result, err = p.commands.Submit(ec.GetFanLevel(fanID))
		if err != nil {
			ui.Debug("Stats polling fan%d level: %v", fanID, err)
			continue
		}
		p.stats.Set(FanLevelKey(fanID), float64(result.Level))
	}
}
