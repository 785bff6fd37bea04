package handlers

import (
	"errors"
	"net/http"

	"toonbridge/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTOs. Exported mirrors exist for the Swagger docs.

type temperatureRequest struct {
	Temperature float64 `json:"temperature" binding:"required"`
}

type presetRequest struct {
	Preset string `json:"preset" binding:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetTemperatureRequest documents the setTemperature payload.
type SetTemperatureRequest struct {
	// Target temperature in degrees Celsius
	Temperature float64 `json:"temperature" example:"19.5"`
}

// SetPresetRequest documents the setPreset payload.
type SetPresetRequest struct {
	// One of COMFORT, HOME, SLEEP, AWAY, ECO
	Preset string `json:"preset" example:"AWAY"`
}

// SetModeRequest documents the setMode payload.
type SetModeRequest struct {
	// One of HEAT, AUTO, OFF
	Mode string `json:"mode" example:"AUTO"`
}

// commandStatus distinguishes rejected commands (400) from device trouble
// (502).
func commandStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTemperatureOutOfRange),
		errors.Is(err, service.ErrUnsupportedPreset),
		errors.Is(err, service.ErrUnsupportedMode):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) respondWithState(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if st, err := h.services.Monitoring.GetState(c.Request.Context()); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Get thermostat state
// @Tags         thermostat
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/thermostat/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("get_state_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set target temperature
// @Tags         thermostat
// @Accept       json
// @Produce      json
// @Param        body  body   SetTemperatureRequest  true  "Temperature payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/thermostat/temperature [post]
// @Security     BearerAuth
func (h *Handler) setTemperature(c *gin.Context) {
	var req temperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if err := h.services.Climate.SetTemperature(c.Request.Context(), req.Temperature); err != nil {
		if h.log != nil {
			h.log.Errorw("set_temperature_failed", "err", err, "temp_c", req.Temperature)
		}
		c.JSON(commandStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.respondWithState(c, "temperature_set", gin.H{"temperature": req.Temperature})
}

// @Summary      Set preset
// @Tags         thermostat
// @Accept       json
// @Produce      json
// @Param        body  body   SetPresetRequest  true  "Preset payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/thermostat/preset [post]
// @Security     BearerAuth
func (h *Handler) setPreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if err := h.services.Climate.SetPreset(c.Request.Context(), req.Preset); err != nil {
		if h.log != nil {
			h.log.Errorw("set_preset_failed", "err", err, "preset", req.Preset)
		}
		c.JSON(commandStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.respondWithState(c, "preset_set", gin.H{"preset": req.Preset})
}

// @Summary      Set hvac mode
// @Description  OFF activates the vacation program
// @Tags         thermostat
// @Accept       json
// @Produce      json
// @Param        body  body   SetModeRequest  true  "Mode payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/thermostat/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if err := h.services.Climate.SetHVACMode(c.Request.Context(), req.Mode); err != nil {
		if h.log != nil {
			h.log.Errorw("set_mode_failed", "err", err, "mode", req.Mode)
		}
		c.JSON(commandStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.respondWithState(c, "mode_set", gin.H{"mode": req.Mode})
}
