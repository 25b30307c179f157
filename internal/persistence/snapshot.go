package persistence

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Snapshot is a human readable JSON rendering of the full daemon state,
// rewritten after every successful state change.
type Snapshot struct {
	PowerMode string                `json:"power_mode"`
	Fans      map[int]SavedFanState `json:"fans"`
}

// ExportSnapshot atomically replaces the snapshot file at path.
func ExportSnapshot(path string, snapshot Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
