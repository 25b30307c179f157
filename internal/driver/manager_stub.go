//go:build !windows

package driver

import "errors"

// Manager is a no-op on platforms without the WinRing0 driver.
type Manager struct {
	driverDir string
}

func NewManager(driverDir string) *Manager {
	return &Manager{driverDir: driverDir}
}

func (m *Manager) IsLoaded() bool {
	return false
}

func (m *Manager) EnsureLoaded() error {
	return errors.New("the WinRing0 driver is only available on windows")
}

func (m *Manager) Delete() error {
	return errors.New("the WinRing0 driver is only available on windows")
}
