package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/axb35/ecfand/internal/ui"
)

const (
	BucketFans = "fans"
	BucketApu  = "apu"

	keyPowerMode = "power_mode"
)

// SavedFanState is the software-side fan state that survives a restart.
// The EC forgets everything on power loss, this is what gets replayed.
type SavedFanState struct {
	Mode          string   `json:"mode"`
	Level         int      `json:"level"`
	RampupCurve   [5]uint8 `json:"rampup_curve"`
	RampdownCurve [5]uint8 `json:"rampdown_curve"`
}

type Persistence interface {
	Init() error

	LoadFanState(fanID int) (*SavedFanState, error)
	SaveFanState(fanID int, state SavedFanState) (err error)
	DeleteFanState(fanID int) (err error)

	LoadPowerMode() (string, error)
	SavePowerMode(mode string) (err error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveFanState saves the software fan state of the given fan to persistence
func (p persistence) SaveFanState(fanID int, state SavedFanState) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	key := strconv.Itoa(fanID)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketFans))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(key), data)
		return err
	})
}

// LoadFanState loads the software fan state of the given fan from persistence
func (p persistence) LoadFanState(fanID int) (*SavedFanState, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	key := strconv.Itoa(fanID)

	var state *SavedFanState
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketFans))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(key))
		if v == nil {
			return os.ErrNotExist
		}

		var saved SavedFanState
		err := json.Unmarshal(v, &saved)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved fan state for fan%s: %v", key, err)
			err := b.Delete([]byte(key))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", key, err)
			}
			return nil
		}
		state = &saved

		return err
	})

	return state, err
}

func (p persistence) DeleteFanState(fanID int) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	key := strconv.Itoa(fanID)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketFans))
		if b == nil {
			// no fan bucket yet
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			// no data for given key
			return nil
		}

		return b.Delete([]byte(key))
	})
}

// SavePowerMode saves the APU power mode to persistence
func (p persistence) SavePowerMode(mode string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketApu))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(keyPowerMode), []byte(mode))
		return err
	})
}

// LoadPowerMode loads the APU power mode from persistence
func (p persistence) LoadPowerMode() (string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return "", err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var mode string
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketApu))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(keyPowerMode))
		if v == nil {
			return os.ErrNotExist
		}
		mode = string(v)
		return nil
	})

	return mode, err
}
