package ec

import (
	"context"
	"time"

	"github.com/axb35/ecfand/internal/ui"
)

// CurveMonitor periodically walks all fans in curve mode and moves their
// level one step towards the configured thresholds. All hardware access is
// submitted through the command queue like any other caller.
type CurveMonitor struct {
	controller *Controller
	commands   *CommandQueue
	tickRate   time.Duration
}

func NewCurveMonitor(controller *Controller, commands *CommandQueue, tickRate time.Duration) *CurveMonitor {
	return &CurveMonitor{
		controller: controller,
		commands:   commands,
		tickRate:   tickRate,
	}
}

func (m *CurveMonitor) Run(ctx context.Context) error {
	tick := time.Tick(m.tickRate)
	active := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			hasCurveFans := m.controller.HasCurveFans()

			if hasCurveFans && !active {
				ui.Info("Curve monitoring started - fans in curve mode detected")
				active = true
			} else if !hasCurveFans && active {
				ui.Info("Curve monitoring stopped - no fans in curve mode")
				active = false
			}

			if !hasCurveFans {
				continue
			}

			if err := m.adjustOnce(); err != nil {
				ui.Warning("Curve monitoring error: %v", err)
			}
		}
	}
}

// adjustOnce reads the shared APU temperature once and moves at most one
// fan by at most one level. Convergence after a large temperature swing is
// deliberately spread over multiple ticks.
func (m *CurveMonitor) adjustOnce() error {
	tempResult, err := m.commands.Submit(GetApuTemperature())
	if err != nil {
		return err
	}
	temp := tempResult.Temperature

	for fanID := 1; fanID <= FanCount; fanID++ {
		state, err := m.controller.CurveState(fanID)
		if err != nil {
			return err
		}
		if state.Mode != FanModeCurve {
			continue
		}

		levelResult, err := m.commands.Submit(GetFanLevel(fanID))
		if err != nil {
			return err
		}
		level := levelResult.Level

		newLevel := level
		if level < MaxLevel && temp >= state.Rampup[level] {
			newLevel = level + 1
			ui.Info("Fan%d ramping up to level %d (temp: %d°C, threshold: %d°C)",
				fanID, newLevel, temp, state.Rampup[level])
		} else if level > 0 && temp <= state.Rampdown[level-1] {
			newLevel = level - 1
			ui.Info("Fan%d ramping down to level %d (temp: %d°C, threshold: %d°C)",
				fanID, newLevel, temp, state.Rampdown[level-1])
		}

		if newLevel != level {
			_, err := m.commands.Submit(SetFanLevel(fanID, newLevel))
			// one adjustment per tick, remaining fans catch up on the next one
			return err
		}
	}

	return nil
}
