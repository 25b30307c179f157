package configuration

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/axb35/ecfand/internal/ui"
)

type Configuration struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// directory containing the WinRing0 .sys files
	DriverDir string `json:"driverDir"`

	DbPath       string `json:"dbPath"`
	SnapshotPath string `json:"snapshotPath"`

	CurveTickRate time.Duration `json:"curveTickRate"`

	StatsPollingRate     time.Duration `json:"statsPollingRate"`
	RpmRollingWindowSize int           `json:"rpmRollingWindowSize"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("ecfand")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath(DefaultDataDir())
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

// DefaultDataDir is where the database, the state snapshot and the driver
// binaries live when nothing else is configured.
func DefaultDataDir() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "ecfand")
	}
	return "/etc/ecfand"
}

func setDefaultValues() {
	dataDir := DefaultDataDir()

	viper.SetDefault("Host", "127.0.0.1")
	viper.SetDefault("Port", 8395)
	viper.SetDefault("DriverDir", filepath.Join(dataDir, "driver"))
	viper.SetDefault("DbPath", filepath.Join(dataDir, "ecfand.db"))
	viper.SetDefault("SnapshotPath", filepath.Join(dataDir, "state.json"))
	viper.SetDefault("CurveTickRate", 1*time.Second)
	viper.SetDefault("StatsPollingRate", 1*time.Second)
	viper.SetDefault("RpmRollingWindowSize", 10)
}

func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			// the daemon runs fine on defaults alone
			ui.Debug("No configuration file found, using defaults")
		} else {
			ui.Fatal("Error reading config file, %s", err)
		}
	} else {
		// this is only populated _after_ ReadInConfig()
		ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())
	}

	LoadConfig()
	validateConfig()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func validateConfig() {
	config := &CurrentConfig
	if config.Port <= 0 || config.Port > 65535 {
		ui.Fatal("Invalid port: %d", config.Port)
	}
	if config.CurveTickRate <= 0 {
		ui.Fatal("curveTickRate must be positive")
	}
	if config.RpmRollingWindowSize <= 0 {
		ui.Fatal("rpmRollingWindowSize must be positive")
	}
}
