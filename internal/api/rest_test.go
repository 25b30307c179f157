package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/axb35/ecfand/internal/ec"
	"github.com/axb35/ecfand/internal/persistence"
)

// fakePorts emulates just enough of the EC handshake to serve a register
// file for the HTTP tests.
type fakePorts struct {
	mu       sync.Mutex
	regs     [256]byte
	state    int // 0 idle, 1 read wants register, 2 read ready, 3 write wants register, 4 write wants value
	register byte
}

func (f *fakePorts) ReadPort(port uint16) (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if port == 0x66 {
		if f.state == 2 {
			return 0x01, nil // output buffer full
		}
		return 0, nil
	}
	f.state = 0
	return f.regs[f.register], nil
}

func (f *fakePorts) WritePort(port uint16, value byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if port == 0x66 {
		if value == 0x80 {
			f.state = 1
		} else {
			f.state = 3
		}
		return nil
	}
	switch f.state {
	case 1:
		f.register = value
		f.state = 2
	case 3:
		f.register = value
		f.state = 4
	case 4:
		f.regs[f.register] = value
		f.state = 0
	}
	return nil
}

func (f *fakePorts) Close() error {
	return nil
}

func (f *fakePorts) setRegister(register byte, value byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[register] = value
}

type fixture struct {
	fake *fakePorts
	rest *echo.Echo
	pers persistence.Persistence
}

func serverFixture(t *testing.T) *fixture {
	t.Helper()
	fake := &fakePorts{}
	// the chip boots with all fans in auto mode
	fake.regs[0x21] = 0x10
	fake.regs[0x23] = 0x20
	fake.regs[0x25] = 0x30
	controller := ec.NewController(fake)
	queue := ec.NewCommandQueue(controller)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = queue.Run(ctx)
	}()

	dir := t.TempDir()
	pers := persistence.NewPersistence(filepath.Join(dir, "ecfand.db"))
	server := NewServer(queue, controller, pers, filepath.Join(dir, "state.json"))

	return &fixture{
		fake: fake,
		rest: server.CreateRestService(),
		pers: pers,
	}
}

func (f *fixture) request(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.rest.ServeHTTP(rec, req)
	return rec
}

func TestStatusWithFirmware(t *testing.T) {
	// GIVEN
	f := serverFixture(t)
	f.fake.setRegister(0x00, 1)
	f.fake.setRegister(0x01, 5)

	// WHEN
	rec := f.request(t, http.MethodGet, "/status/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var response StatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint8(1), response.Status)
	assert.Equal(t, "1.05", *response.Version)
}

func TestStatusWithoutFirmware(t *testing.T) {
	// GIVEN: firmware registers read all zero
	f := serverFixture(t)

	// WHEN
	rec := f.request(t, http.MethodGet, "/status/", "")

	// THEN: still a 200, the body carries the failure
	assert.Equal(t, http.StatusOK, rec.Code)
	var response StatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint8(0), response.Status)
	assert.Nil(t, response.Version)
}

func TestGetTemperature(t *testing.T) {
	f := serverFixture(t)
	f.fake.setRegister(0x70, 64)

	rec := f.request(t, http.MethodGet, "/apu/temp/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var response TemperatureResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint8(64), response.Temperature)
}

func TestPowerModeRoundTripOverHttp(t *testing.T) {
	// GIVEN
	f := serverFixture(t)

	// WHEN
	rec := f.request(t, http.MethodPost, "/apu/power_mode/", `{"power_mode":"quiet"}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/apu/power_mode/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var response PowerModeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "quiet", response.PowerMode)

	// AND: the mode was persisted
	mode, err := f.pers.LoadPowerMode()
	assert.NoError(t, err)
	assert.Equal(t, "quiet", mode)
}

func TestInvalidPowerModeIsRejected(t *testing.T) {
	f := serverFixture(t)

	rec := f.request(t, http.MethodPost, "/apu/power_mode/", `{"power_mode":"turbo"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFanLevelOverHttp(t *testing.T) {
	// GIVEN
	f := serverFixture(t)

	// WHEN
	rec := f.request(t, http.MethodPost, "/fan1/level/", `{"level":3}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/fan1/level/", "")
	var response FanLevelResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Level)

	// AND: the fan state was persisted
	state, err := f.pers.LoadFanState(1)
	assert.NoError(t, err)
	assert.Equal(t, 3, state.Level)
}

func TestFanLevelOutOfRangeIsRejected(t *testing.T) {
	f := serverFixture(t)

	rec := f.request(t, http.MethodPost, "/fan1/level/", `{"level":6}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFanModeOverHttp(t *testing.T) {
	f := serverFixture(t)

	rec := f.request(t, http.MethodPost, "/fan2/mode/", `{"mode":"curve"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/fan2/mode/", "")
	var response FanModeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "curve", response.Mode)
}

func TestInvalidCurveIsRejected(t *testing.T) {
	f := serverFixture(t)

	rec := f.request(t, http.MethodPost, "/fan1/rampup_curve/", `{"curve":[60,70,101,95,97]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurveRoundTripOverHttp(t *testing.T) {
	f := serverFixture(t)

	rec := f.request(t, http.MethodPost, "/fan3/rampdown_curve/", `{"curve":[5,15,25,35,45]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodGet, "/fan3/rampdown_curve/", "")
	var response FanCurveResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, [5]uint8{5, 15, 25, 35, 45}, response.Curve)
}

func TestMetricsAggregate(t *testing.T) {
	// GIVEN
	f := serverFixture(t)
	f.fake.setRegister(0x70, 55)
	f.fake.setRegister(0x35, 0x0B) // fan1 rpm 2900
	f.fake.setRegister(0x36, 0x54)

	// WHEN
	rec := f.request(t, http.MethodGet, "/metrics/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var response MetricsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "balanced", response.PowerMode)
	assert.Equal(t, uint8(55), response.Temperature)
	assert.Equal(t, "auto", response.Fan1.Mode)
	assert.Equal(t, uint16(2900), response.Fan1.Rpm)
	assert.Equal(t, [5]uint8{20, 60, 83, 95, 97}, response.Fan3.RampupCurve)
}
