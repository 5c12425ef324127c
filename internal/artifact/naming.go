package artifact

import (
	"strings"
	"unicode"
)

// unitSymbols maps measurement symbols to tokens usable in action
// names and URL segments.
var unitSymbols = map[string]string{
	"°C":    "degc",
	"°F":    "degf",
	"%":     "percent",
	"µg/m³": "ugm3",
	"μg/m³": "ugm3",
	"kWh":   "kwh",
	"W":     "w",
	"Wh":    "wh",
	"V":     "v",
	"A":     "a",
	"lx":    "lx",
}

// SanitizeUnit normalises a unit of measurement to a lowercase
// alphanumeric token. Known symbols are mapped; anything else keeps
// letters and digits only. Returns "" when nothing usable remains.
func SanitizeUnit(unit string) string {
	if unit == "" {
		return ""
	}
	if tok, ok := unitSymbols[unit]; ok {
		return tok
	}
	var b strings.Builder
	for _, r := range unit {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CamelToken turns a token into CamelCase, splitting on any
// non-alphanumeric rune. "turn_on" becomes "TurnOn".
func CamelToken(token string) string {
	var b strings.Builder
	upper := true
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// SensorActionName builds the read-back action name for a sensor:
// get<DeviceClass>In<Unit> when a device class is present, getIn<Unit>
// otherwise. Returns "" when the unit cannot be normalised, in which
// case no action is published.
func SensorActionName(deviceClass, unit string) string {
	u := SanitizeUnit(unit)
	if u == "" {
		return ""
	}
	dc := strings.TrimSpace(deviceClass)
	if dc != "" {
		return "get" + CamelToken(dc) + "In" + CamelToken(u)
	}
	return "getIn" + CamelToken(u)
}
