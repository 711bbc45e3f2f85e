package uplink

import (
	"math"
	"strconv"
	"strings"
)

// Key aliases the service has used for each command over time.
var (
	transponderKeys = map[string]bool{
		"transponder_code": true, "transponder": true, "xpdr": true, "squawk": true,
	}
	adfActiveKeys = map[string]bool{
		"adf_active_freq": true, "adf_active_frequency": true,
	}
	adfStandbyKeys = map[string]bool{
		"adf_standby_freq_hz": true, "adf_standby_frequency_hz": true, "adf_standby_freq": true,
	}
	flapsKeys = map[string]bool{
		"flaps_index": true, "flaps_handle_index": true,
	}
)

// maxFlapsIndex caps the flaps detent a remote command may select.
const maxFlapsIndex = 16383

// nested payload keys that may carry a command map
var commandContainers = []string{"keys", "commands", "sim", "simvars", "controls"}

// applyCommands routes a decoded response payload into the bridge's
// command surface. Values are coerced leniently; anything that does not
// parse is skipped, never an error. Returns the number of accepted
// submissions.
func (c *Client) applyCommands(payload map[string]any) int {
	applied := 0

	for key, value := range collectCommands(payload) {
		switch {
		case transponderKeys[key]:
			code, ok := toInt(value)
			if !ok {
				continue
			}
			if _, ok := encodeTransponderBCD(code); !ok {
				continue
			}
			if c.bridge.SetTransponderCode(code) {
				applied++
			}

		case adfActiveKeys[key]:
			khz, ok := toInt(value)
			if !ok || khz < 0 {
				continue
			}
			if c.bridge.SetAdfActiveKHz(float64(khz)) {
				applied++
			}

		case adfStandbyKeys[key]:
			khz, ok := toFloat(value)
			if !ok || khz < 0 {
				continue
			}
			if c.bridge.SetAdfStandbyKHz(math.Round(khz)) {
				applied++
			}

		case key == "gear_handle":
			down, ok := toToggle(value)
			if !ok {
				continue
			}
			if c.bridge.SetGearHandle(down) {
				applied++
			}

		case flapsKeys[key]:
			raw, ok := toFloat(value)
			if !ok {
				continue
			}
			index := int(math.Round(raw))
			if index < 0 {
				continue
			}
			if index > maxFlapsIndex {
				index = maxFlapsIndex
			}
			if c.bridge.SetFlapsIndex(index) {
				applied++
			}

		case key == "parking_brake":
			on, ok := toToggle(value)
			if !ok {
				continue
			}
			if c.bridge.SetParkingBrake(on) {
				applied++
			}

		case key == "autopilot_master":
			on, ok := toToggle(value)
			if !ok {
				continue
			}
			if c.bridge.SetAutopilotMaster(on) {
				applied++
			}
		}
	}

	return applied
}

// collectCommands flattens the payload and its known command containers
// into one normalized key map. Later containers win on key collisions.
func collectCommands(payload map[string]any) map[string]any {
	sources := []map[string]any{payload}
	for _, key := range commandContainers {
		if nested, ok := payload[key].(map[string]any); ok {
			sources = append(sources, nested)
		}
	}

	commands := make(map[string]any)
	for _, source := range sources {
		for key, value := range source {
			commands[normalizeKey(key)] = value
		}
	}
	return commands
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// ---- value coercion ----

var (
	trueLiterals  = map[string]bool{"1": true, "true": true, "yes": true, "on": true}
	falseLiterals = map[string]bool{"0": true, "false": true, "no": true, "off": true}
)

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, false
		}
		if parsed, err := strconv.Atoi(text); err == nil {
			return parsed, true
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed != math.Trunc(parsed) {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}

func toToggle(value any) (bool, bool) {
	if v, ok := value.(bool); ok {
		return v, true
	}
	if number, ok := toFloat(value); ok {
		return number >= 0.5, true
	}
	if v, ok := value.(string); ok {
		text := strings.ToLower(strings.TrimSpace(v))
		if trueLiterals[text] {
			return true, true
		}
		if falseLiterals[text] {
			return false, true
		}
	}
	return false, false
}

// encodeTransponderBCD packs a squawk code into the BCD form the host's
// transponder field documents: four octal digits, one per nibble. It
// doubles as validation; codes with digits 8 or 9 have no encoding.
func encodeTransponderBCD(code int) (uint32, bool) {
	if code < 0 || code > 7777 {
		return 0, false
	}

	var out uint32
	digits := [4]int{code / 1000, code / 100 % 10, code / 10 % 10, code % 10}
	for _, d := range digits {
		if d > 7 {
			return 0, false
		}
		out = out<<4 | uint32(d)
	}
	return out, true
}
