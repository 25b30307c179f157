package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/axb35/ecfand/internal/ec"
)

type (
	StatusResponse struct {
		Status  uint8   `json:"status"`
		Version *string `json:"version"`
	}

	PowerModeResponse struct {
		PowerMode string `json:"power_mode"`
	}

	PowerModeRequest struct {
		PowerMode string `json:"power_mode"`
	}

	TemperatureResponse struct {
		Temperature uint8 `json:"temperature"`
	}

	MetricsResponse struct {
		PowerMode   string     `json:"power_mode"`
		Temperature uint8      `json:"temperature"`
		Fan1        FanMetrics `json:"fan1"`
		Fan2        FanMetrics `json:"fan2"`
		Fan3        FanMetrics `json:"fan3"`
	}

	FanMetrics struct {
		Mode          string   `json:"mode"`
		Level         int      `json:"level"`
		Rpm           uint16   `json:"rpm"`
		RampupCurve   [5]uint8 `json:"rampup_curve"`
		RampdownCurve [5]uint8 `json:"rampdown_curve"`
	}
)

func (s *Server) registerApuEndpoints(rest *echo.Echo) {
	rest.GET("/status/", s.getStatus)
	rest.GET("/metrics/", s.getMetrics)

	group := rest.Group("/apu")
	group.GET("/power_mode/", s.getPowerMode)
	group.POST("/power_mode/", s.setPowerMode)
	group.GET("/temp/", s.getTemperature)
}

// getStatus reports whether the EC answers, and its firmware version if so
func (s *Server) getStatus(c echo.Context) error {
	result, err := s.commands.Submit(ec.GetFirmwareVersion())
	if err != nil {
		return c.JSONPretty(http.StatusOK, &StatusResponse{Status: 0, Version: nil}, indentationChar)
	}
	version := result.Firmware.String()
	return c.JSONPretty(http.StatusOK, &StatusResponse{Status: 1, Version: &version}, indentationChar)
}

func (s *Server) getMetrics(c echo.Context) error {
	powerResult, err := s.commands.Submit(ec.GetApuPowerMode())
	if err != nil {
		return returnError(c, err)
	}
	tempResult, err := s.commands.Submit(ec.GetApuTemperature())
	if err != nil {
		return returnError(c, err)
	}

	var fans [ec.FanCount]FanMetrics
	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		metrics, err := s.fanMetrics(fanID)
		if err != nil {
			return returnError(c, err)
		}
		fans[fanID-1] = metrics
	}

	return c.JSONPretty(http.StatusOK, &MetricsResponse{
		PowerMode:   powerResult.Power.String(),
		Temperature: tempResult.Temperature,
		Fan1:        fans[0],
		Fan2:        fans[1],
		Fan3:        fans[2],
	}, indentationChar)
}

func (s *Server) fanMetrics(fanID int) (FanMetrics, error) {
	modeResult, err := s.commands.Submit(ec.GetFanMode(fanID))
	if err != nil {
		return FanMetrics{}, err
	}
	levelResult, err := s.commands.Submit(ec.GetFanLevel(fanID))
	if err != nil {
		return FanMetrics{}, err
	}
	rpmResult, err := s.commands.Submit(ec.GetFanRpm(fanID))
	if err != nil {
		return FanMetrics{}, err
	}
	state, err := s.controller.CurveState(fanID)
	if err != nil {
		return FanMetrics{}, err
	}

	return FanMetrics{
		Mode:          modeResult.Mode.String(),
		Level:         levelResult.Level,
		Rpm:           rpmResult.Rpm,
		RampupCurve:   state.Rampup,
		RampdownCurve: state.Rampdown,
	}, nil
}

func (s *Server) getPowerMode(c echo.Context) error {
	result, err := s.commands.Submit(ec.GetApuPowerMode())
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &PowerModeResponse{PowerMode: result.Power.String()}, indentationChar)
}

func (s *Server) setPowerMode(c echo.Context) error {
	var request PowerModeRequest
	if err := c.Bind(&request); err != nil {
		return returnError(c, ec.ErrInvalidInput)
	}

	mode, err := ec.ParsePowerMode(request.PowerMode)
	if err != nil {
		return returnError(c, err)
	}

	result, err := s.commands.Submit(ec.SetApuPowerMode(mode))
	if err != nil {
		return returnError(c, err)
	}

	s.persistPowerMode(result.Power)

	return c.JSONPretty(http.StatusOK, &PowerModeResponse{PowerMode: result.Power.String()}, indentationChar)
}

func (s *Server) getTemperature(c echo.Context) error {
	result, err := s.commands.Submit(ec.GetApuTemperature())
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &TemperatureResponse{Temperature: result.Temperature}, indentationChar)
}
