package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"

	"github.com/axb35/ecfand/internal/api"
	"github.com/axb35/ecfand/internal/configuration"
	"github.com/axb35/ecfand/internal/driver"
	"github.com/axb35/ecfand/internal/ec"
	"github.com/axb35/ecfand/internal/persistence"
	"github.com/axb35/ecfand/internal/statistics"
	"github.com/axb35/ecfand/internal/ui"
)

func RunDaemon() {
	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	driverManager := driver.NewManager(config.DriverDir)
	if err := driverManager.EnsureLoaded(); err != nil {
		ui.Fatal("Unable to load the WinRing0 driver: %v", err)
	}

	ports, err := ec.OpenPortIO()
	if err != nil {
		ui.Fatal("Unable to open port I/O: %v", err)
	}
	defer func() {
		_ = ports.Close()
	}()

	controller := ec.NewController(ports)

	version, err := controller.Execute(ec.GetFirmwareVersion())
	if err != nil {
		ui.Fatal("EC is not answering: %v", err)
	}
	ui.Info("EC firmware version: %s", version.Firmware)

	// nothing else touches the hardware yet, replay the saved state before
	// the queue and its consumers start
	restoreState(controller, pers)

	queue := ec.NewCommandQueue(controller)
	monitor := ec.NewCurveMonitor(controller, queue, config.CurveTickRate)

	stats := statistics.NewStats(config.RpmRollingWindowSize)
	statistics.Register(statistics.NewApuCollector(stats))
	statistics.Register(statistics.NewFanCollector(stats))
	poller := statistics.NewPoller(queue, stats, config.StatsPollingRate)

	server := api.NewServer(queue, controller, pers, config.SnapshotPath)
	restService := server.CreateRestService()

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === EC command queue
		g.Add(func() error {
			err := queue.Run(ctx)
			ui.Info("EC command queue stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running command queue: %v", err)
			}
		})
	}
	{
		// === curve monitoring
		g.Add(func() error {
			err := monitor.Run(ctx)
			ui.Info("Curve monitor stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error monitoring curves: %v", err)
			}
		})
	}
	{
		// === statistics polling
		g.Add(func() error {
			err := poller.Run(ctx)
			ui.Info("Statistics poller stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error polling statistics: %v", err)
			}
		})
	}
	{
		// === REST api
		g.Add(func() error {
			addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
			ui.Info("Listening on %s", addr)
			if err := restService.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			if err := restService.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping rest service: %v", err)
			} else {
				ui.Info("Rest service stopped.")
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// restoreState replays the persisted software state against the EC. The chip
// forgets everything on power loss, so without this every reboot silently
// falls back to auto.
func restoreState(controller *ec.Controller, pers persistence.Persistence) {
	if mode, err := pers.LoadPowerMode(); err == nil {
		parsed, err := ec.ParsePowerMode(mode)
		if err != nil {
			ui.Warning("Ignoring saved power mode %q: %v", mode, err)
		} else if _, err := controller.Execute(ec.SetApuPowerMode(parsed)); err != nil {
			ui.Warning("Unable to restore power mode %s: %v", mode, err)
		} else {
			ui.Info("Restored power mode: %s", mode)
		}
	}

	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		state, err := pers.LoadFanState(fanID)
		if err != nil || state == nil {
			continue
		}

		mode, err := ec.ParseFanMode(state.Mode)
		if err != nil {
			ui.Warning("Ignoring saved state of fan%d: %v", fanID, err)
			continue
		}

		// curves first so that entering curve mode picks its starting
		// level from the restored thresholds
		if _, err := controller.Execute(ec.SetFanRampupCurve(fanID, state.RampupCurve)); err != nil {
			ui.Warning("Unable to restore fan%d ramp-up curve: %v", fanID, err)
		}
		if _, err := controller.Execute(ec.SetFanRampdownCurve(fanID, state.RampdownCurve)); err != nil {
			ui.Warning("Unable to restore fan%d ramp-down curve: %v", fanID, err)
		}

		if _, err := controller.Execute(ec.SetFanMode(fanID, mode)); err != nil {
			ui.Warning("Unable to restore fan%d mode %s: %v", fanID, state.Mode, err)
			continue
		}
		if mode == ec.FanModeFixed {
			if _, err := controller.Execute(ec.SetFanLevel(fanID, state.Level)); err != nil {
				ui.Warning("Unable to restore fan%d level %d: %v", fanID, state.Level, err)
				continue
			}
		}
		ui.Info("Restored fan%d: mode %s, level %d", fanID, state.Mode, state.Level)
	}
}
