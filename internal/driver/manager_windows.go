//go:build windows

package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/axb35/ecfand/internal/ui"
)

const (
	serviceName = "WinRing0_1_2_0"
	devicePath  = `\\.\WinRing0_1_2_0`

	// time for the service manager to settle after install/delete
	installSettleTime = 500 * time.Millisecond
	reinstallWaitTime = 2 * time.Second
)

// Manager installs, starts and removes the WinRing0 kernel driver that
// provides raw port I/O access.
type Manager struct {
	driverDir string
}

func NewManager(driverDir string) *Manager {
	return &Manager{driverDir: driverDir}
}

// IsLoaded probes the driver device to see whether it already answers.
func (m *Manager) IsLoaded() bool {
	pathPtr, err := windows.UTF16PtrFromString(devicePath)
	if err != nil {
		return false
	}
	handle, err := windows.CreateFile(pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}

// EnsureLoaded makes the driver available, installing it if necessary.
func (m *Manager) EnsureLoaded() error {
	if m.IsLoaded() {
		ui.Debug("WinRing0 driver already loaded")
		return nil
	}

	ui.Info("Installing WinRing0 driver...")
	if err := m.installAndStart(); err != nil {
		// a stale service registration from a previous run can block the
		// install, remove it and try once more
		ui.Warning("Driver installation failed (%v), reinstalling", err)
		if err := m.Delete(); err != nil {
			ui.Debug("Driver removal during reinstall: %v", err)
		}
		time.Sleep(reinstallWaitTime)
		if err := m.installAndStart(); err != nil {
			return fmt.Errorf("unable to install WinRing0 driver: %w", err)
		}
	}

	time.Sleep(installSettleTime)
	if !m.IsLoaded() {
		return errors.New("WinRing0 driver installed but device is not answering")
	}
	return nil
}

func (m *Manager) driverPath() (string, error) {
	name := "WinRing0.sys"
	if runtime.GOARCH == "amd64" {
		name = "WinRing0x64.sys"
	}
	return filepath.Abs(filepath.Join(m.driverDir, name))
}

func (m *Manager) installAndStart() error {
	driverPath, err := m.driverPath()
	if err != nil {
		return err
	}

	manager, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("unable to connect to service manager: %w", err)
	}
	defer manager.Disconnect()

	service, err := manager.CreateService(serviceName, driverPath, mgr.Config{
		ServiceType:  windows.SERVICE_KERNEL_DRIVER,
		StartType:    mgr.StartManual,
		ErrorControl: mgr.ErrorNormal,
	})
	if errors.Is(err, windows.ERROR_SERVICE_EXISTS) {
		service, err = manager.OpenService(serviceName)
	}
	if err != nil {
		return fmt.Errorf("unable to create driver service: %w", err)
	}
	defer service.Close()

	err = service.Start()
	if err != nil && !errors.Is(err, windows.ERROR_SERVICE_ALREADY_RUNNING) {
		return fmt.Errorf("unable to start driver service: %w", err)
	}
	return nil
}

// Delete stops and removes the driver service registration.
func (m *Manager) Delete() error {
	manager, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("unable to connect to service manager: %w", err)
	}
	defer manager.Disconnect()

	service, err := manager.OpenService(serviceName)
	if err != nil {
		return fmt.Errorf("unable to open driver service: %w", err)
	}
	defer service.Close()

	if _, err := service.Control(svc.Stop); err != nil {
		ui.Debug("Stopping driver service: %v", err)
	}
	if err := service.Delete(); err != nil {
		return fmt.Errorf("unable to delete driver service: %w", err)
	}
	return nil
}
