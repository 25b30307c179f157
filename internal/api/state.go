package api

import (
	"github.com/axb35/ecfand/internal/ec"
	"github.com/axb35/ecfand/internal/persistence"
	"github.com/axb35/ecfand/internal/ui"
	"github.com/axb35/ecfand/internal/util"
)

// persistFanState writes the current software state of the given fan to the
// database and refreshes the snapshot file. A failure here never fails the
// request, the hardware change already happened.
func (s *Server) persistFanState(fanID int) {
	state, err := s.controller.CurveState(fanID)
	if err != nil {
		ui.Warning("Unable to read fan%d state for persistence: %v", fanID, err)
		return
	}
	levelResult, err := s.commands.Submit(ec.GetFanLevel(fanID))
	if err != nil {
		ui.Warning("Unable to read fan%d level for persistence: %v", fanID, err)
		return
	}

	saved := persistence.SavedFanState{
		Mode:          state.Mode.String(),
		Level:         levelResult.Level,
		RampupCurve:   state.Rampup,
		RampdownCurve: state.Rampdown,
	}
	if err := s.pers.SaveFanState(fanID, saved); err != nil {
		ui.Warning("Unable to persist fan%d state: %v", fanID, err)
		return
	}

	s.exportSnapshot()
}

func (s *Server) persistPowerMode(mode ec.PowerMode) {
	if err := s.pers.SavePowerMode(mode.String()); err != nil {
		ui.Warning("Unable to persist power mode: %v", err)
		return
	}

	s.exportSnapshot()
}

// exportSnapshot rewrites the human readable state file from what the
// database currently holds.
func (s *Server) exportSnapshot() {
	snapshot := persistence.Snapshot{
		PowerMode: ec.PowerModeBalanced.String(),
		Fans:      map[int]persistence.SavedFanState{},
	}

	if mode, err := s.pers.LoadPowerMode(); err == nil {
		snapshot.PowerMode = mode
	}
	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		if state, err := s.pers.LoadFanState(fanID); err == nil && state != nil {
			snapshot.Fans[fanID] = *state
		}
	}

	if err := persistence.ExportSnapshot(s.snapshotPath, snapshot); err != nil {
		ui.Warning("Unable to write state snapshot: %v", err)
		return
	}
	ui.Debug("Snapshot written for fans %v", util.SortedKeys(snapshot.Fans))
}
