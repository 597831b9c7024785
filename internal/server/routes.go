package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trenchline/fleetctl/internal/fleet"
)

// registerRoutes mounts the embedder API named in spec.md §6 onto r.
// Every handler resolves {sysID} from the URL and talks to the
// Controller; none of this reaches into mission planning or video,
// matching the Non-goals SPEC_FULL carries forward unchanged.
func registerRoutes(r chi.Router, deps *Dependencies) {
	r.Route("/vehicles/{sysID}", func(r chi.Router) {
		r.Get("/status", handleStatus(deps))
		r.Get("/telemetry", handleTelemetry(deps))
		r.Post("/arm", handleArm(deps))
		r.Post("/disarm", handleDisarm(deps))
		r.Post("/mode", handleSetMode(deps))
		r.Post("/servo", handleSetServo(deps))
		r.Post("/motor_test", handleMotorTest(deps))
		r.Post("/rc_override", handleRCOverride(deps))
		r.Post("/manual_control", handleManualControl(deps))
		r.Get("/events/statustext", handleStatustextPop(deps))
		r.Get("/events/named_value_float", handleNamedValuePop(deps))
		r.Get("/events/message", handleMessagePop(deps))
	})
}

func sysIDFromRequest(r *http.Request) (fleet.SystemID, error) {
	raw := chi.URLParam(r, "sysID")
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, err
	}
	return fleet.SystemID(v), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func handleStatus(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"system_id": sysID,
			"ready":     deps.Controller.CheckVehicle(sysID),
			"label":     deps.GetVehicleRegistry().Label(sysID),
		})
	}
}

func handleTelemetry(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap, err := deps.Controller.GetVehicleData(sysID)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleArm(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := deps.Controller.Arm(sysID, autopilotFromQuery(r)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDisarm(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := deps.Controller.Disarm(sysID, autopilotFromQuery(r)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type setModeRequest struct {
	Mode uint32 `json:"mode"`
}

func handleSetMode(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var body setModeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := deps.Controller.SetMode(sysID, body.Mode); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type setServoRequest struct {
	ServoNo float32 `json:"servo_no"`
	PWM     float32 `json:"pwm"`
}

func handleSetServo(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var body setServoRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := deps.Controller.SetServo(sysID, autopilotFromQuery(r), body.ServoNo, body.PWM); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type motorTestRequest struct {
	MotorNo int     `json:"motor_no"`
	PWM     float32 `json:"pwm"`
}

func handleMotorTest(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var body motorTestRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := deps.Controller.MotorTest(sysID, autopilotFromQuery(r), body.MotorNo, body.PWM); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type rcOverrideRequest struct {
	Ch1 uint16 `json:"ch1"`
	Ch2 uint16 `json:"ch2"`
	Ch3 uint16 `json:"ch3"`
	Ch4 uint16 `json:"ch4"`
	Ch5 uint16 `json:"ch5"`
	Ch6 uint16 `json:"ch6"`
	Ch7 uint16 `json:"ch7"`
	Ch8 uint16 `json:"ch8"`
}

func handleRCOverride(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var body rcOverrideRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		err = deps.Controller.RCChannelsOverride(sysID, autopilotFromQuery(r),
			body.Ch1, body.Ch2, body.Ch3, body.Ch4, body.Ch5, body.Ch6, body.Ch7, body.Ch8)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type manualControlRequest struct {
	X       int16  `json:"x"`
	Y       int16  `json:"y"`
	Z       int16  `json:"z"`
	R       int16  `json:"r"`
	Buttons uint16 `json:"buttons"`
}

func handleManualControl(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var body manualControlRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		err = deps.Controller.ManualControl(sysID, body.X, body.Y, body.Z, body.R, body.Buttons)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStatustextPop(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ev, ok := deps.Controller.StatustextPop(sysID)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	}
}

func handleNamedValuePop(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ev, ok := deps.Controller.NamedValueFloatPop(sysID)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	}
}

func handleMessagePop(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, err := sysIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ev, ok := deps.Controller.MessagePop(sysID)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	}
}

// autopilotFromQuery reads ?autopilot=N, defaulting to component id 1
// (MAV_COMP_ID_AUTOPILOT1), the value every ArduSub vehicle uses.
func autopilotFromQuery(r *http.Request) uint8 {
	raw := r.URL.Query().Get("autopilot")
	if raw == "" {
		return 1
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 1
	}
	return uint8(v)
}
