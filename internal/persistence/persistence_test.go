package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPersistence(t *testing.T) Persistence {
	t.Helper()
	return NewPersistence(filepath.Join(t.TempDir(), "ecfand.db"))
}

func TestFanStateRoundTrip(t *testing.T) {
	// GIVEN
	p := testPersistence(t)
	state := SavedFanState{
		Mode:          "curve",
		Level:         3,
		RampupCurve:   [5]uint8{60, 70, 83, 95, 97},
		RampdownCurve: [5]uint8{40, 50, 80, 94, 96},
	}

	// WHEN
	err := p.SaveFanState(1, state)
	assert.NoError(t, err)
	loaded, err := p.LoadFanState(1)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, state, *loaded)
}

func TestLoadFanStateWithoutSavedData(t *testing.T) {
	p := testPersistence(t)

	_, err := p.LoadFanState(2)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeleteFanState(t *testing.T) {
	p := testPersistence(t)
	err := p.SaveFanState(1, SavedFanState{Mode: "fixed", Level: 2})
	assert.NoError(t, err)

	err = p.DeleteFanState(1)
	assert.NoError(t, err)

	_, err = p.LoadFanState(1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPowerModeRoundTrip(t *testing.T) {
	p := testPersistence(t)

	err := p.SavePowerMode("quiet")
	assert.NoError(t, err)

	mode, err := p.LoadPowerMode()
	assert.NoError(t, err)
	assert.Equal(t, "quiet", mode)
}

func TestLoadPowerModeWithoutSavedData(t *testing.T) {
	p := testPersistence(t)

	_, err := p.LoadPowerMode()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportSnapshot(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "state", "state.json")
	snapshot := Snapshot{
		PowerMode: "performance",
		Fans: map[int]SavedFanState{
			1: {Mode: "curve", Level: 2},
		},
	}

	// WHEN
	err := ExportSnapshot(path, snapshot)

	// THEN
	assert.NoError(t, err)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	var loaded Snapshot
	assert.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, snapshot, loaded)
}
