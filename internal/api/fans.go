package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/axb35/ecfand/internal/ec"
)

type (
	FanRpmResponse struct {
		Rpm uint16 `json:"rpm"`
	}

	FanModeResponse struct {
		Mode string `json:"mode"`
	}

	FanModeRequest struct {
		Mode string `json:"mode"`
	}

	FanLevelResponse struct {
		Level int `json:"level"`
	}

	FanLevelRequest struct {
		Level int `json:"level"`
	}

	FanCurveResponse struct {
		Curve [5]uint8 `json:"curve"`
	}

	FanCurveRequest struct {
		Curve [5]uint8 `json:"curve"`
	}
)

func (s *Server) registerFanEndpoints(rest *echo.Echo) {
	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		fanID := fanID
		group := rest.Group(fmt.Sprintf("/fan%d", fanID))

		group.GET("/rpm/", func(c echo.Context) error {
			return s.getFanRpm(c, fanID)
		})
		group.GET("/mode/", func(c echo.Context) error {
			return s.getFanMode(c, fanID)
		})
		group.POST("/mode/", func(c echo.Context) error {
			return s.setFanMode(c, fanID)
		})
		group.GET("/level/", func(c echo.Context) error {
			return s.getFanLevel(c, fanID)
		})
		group.POST("/level/", func(c echo.Context) error {
			return s.setFanLevel(c, fanID)
		})
		group.GET("/rampup_curve/", func(c echo.Context) error {
			return s.getFanCurve(c, fanID, true)
		})
		group.POST("/rampup_curve/", func(c echo.Context) error {
			return s.setFanCurve(c, fanID, true)
		})
		group.GET("/rampdown_curve/", func(c echo.Context) error {
			return s.getFanCurve(c, fanID, false)
		})
		group.POST("/rampdown_curve/", func(c echo.Context) error {
			return s.setFanCurve(c, fanID, false)
		})
	}
}

func (s *Server) getFanRpm(c echo.Context, fanID int) error {
	result, err := s.commands.Submit(ec.GetFanRpm(fanID))
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &FanRpmResponse{Rpm: result.Rpm}, indentationChar)
}

func (s *Server) getFanMode(c echo.Context, fanID int) error {
	result, err := s.commands.Submit(ec.GetFanMode(fanID))
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &FanModeResponse{Mode: result.Mode.String()}, indentationChar)
}

func (s *Server) setFanMode(c echo.Context, fanID int) error {
	var request FanModeRequest
	if err := c.Bind(&request); err != nil {
		return returnError(c, ec.ErrInvalidInput)
	}

	mode, err := ec.ParseFanMode(request.Mode)
	if err != nil {
		return returnError(c, err)
	}

	result, err := s.commands.Submit(ec.SetFanMode(fanID, mode))
	if err != nil {
		return returnError(c, err)
	}

	s.persistFanState(fanID)

	return c.JSONPretty(http.StatusOK, &FanModeResponse{Mode: result.Mode.String()}, indentationChar)
}

func (s *Server) getFanLevel(c echo.Context, fanID int) error {
	result, err := s.commands.Submit(ec.GetFanLevel(fanID))
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &FanLevelResponse{Level: result.Level}, indentationChar)
}

func (s *Server) setFanLevel(c echo.Context, fanID int) error {
	var request FanLevelRequest
	if err := c.Bind(&request); err != nil {
		return returnError(c, ec.ErrInvalidInput)
	}

	result, err := s.commands.Submit(ec.SetFanLevel(fanID, request.Level))
	if err != nil {
		return returnError(c, err)
	}

	s.persistFanState(fanID)

	return c.JSONPretty(http.StatusOK, &FanLevelResponse{Level: result.Level}, indentationChar)
}

func (s *Server) getFanCurve(c echo.Context, fanID int, rampup bool) error {
	op := ec.GetFanRampdownCurve(fanID)
	if rampup {
		op = ec.GetFanRampupCurve(fanID)
	}

	result, err := s.commands.Submit(op)
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &FanCurveResponse{Curve: result.Curve}, indentationChar)
}

func (s *Server) setFanCurve(c echo.Context, fanID int, rampup bool) error {
	var request FanCurveRequest
	if err := c.Bind(&request); err != nil {
		return returnError(c, ec.ErrInvalidInput)
	}

	op := ec.SetFanRampdownCurve(fanID, request.Curve)
	if rampup {
		op = ec.SetFanRampupCurve(fanID, request.Curve)
	}

	result, err := s.commands.Submit(op)
	if err != nil {
		return returnError(c, err)
	}

	s.persistFanState(fanID)

	return c.JSONPretty(http.StatusOK, &FanCurveResponse{Curve: result.Curve}, indentationChar)
}
