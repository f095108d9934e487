package state

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ScreenID identifies one settings page of the device UI.
type ScreenID int

// Screen identifiers, in menu order.
const (
	ScreenClock  ScreenID = 1
	ScreenLEDs   ScreenID = 2
	ScreenExtras ScreenID = 3
	ScreenInfo   ScreenID = 4
)

// Screens lists every screen known to the device.
var Screens = []ScreenID{ScreenClock, ScreenLEDs, ScreenExtras, ScreenInfo}

var screenNames = map[ScreenID]string{
	ScreenClock:  "clock",
	ScreenLEDs:   "leds",
	ScreenExtras: "extras",
	ScreenInfo:   "info",
}

// Name returns the short name used in envelope tags (e.g. "clock").
func (id ScreenID) Name() string {
	if name, ok := screenNames[id]; ok {
		return name
	}
	return "screen" + strconv.Itoa(int(id))
}

// Valid reports whether id is one of the known screens.
func (id ScreenID) Valid() bool {
	_, ok := screenNames[id]
	return ok
}

// ParseScreenID parses a decimal screen id.
func ParseScreenID(s string) (ScreenID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid screen id %q: %w", s, err)
	}
	return ScreenID(n), nil
}

// Kind is the declared type of a setting.
type Kind int

const (
	// KindAny is used for keys added at runtime; values are decoded
	// opportunistically.
	KindAny Kind = iota
	KindBool
	KindInt
	KindString
	KindObject
)

var kindNames = map[Kind]string{
	KindAny:    "any",
	KindBool:   "bool",
	KindInt:    "int",
	KindString: "string",
	KindObject: "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Setting declares one key of a screen together with its default value.
type Setting struct {
	Key     string
	Kind    Kind
	Default any
}

// Page is a navigable menu entry.
type Page struct {
	Slot  int
	URL   string
	Title string
}

// MarshalJSON encodes a page as {"<slot>": {"url": ..., "title": ...}}.
func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]pageEntry{
		strconv.Itoa(p.Slot): {URL: p.URL, Title: p.Title},
	})
}

type pageEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DefaultPages returns the device menu.
func DefaultPages() []Page {
	return []Page{
		{Slot: 1, URL: "clock.html", Title: "Clock"},
		{Slot: 2, URL: "leds.html", Title: "LEDs"},
		{Slot: 3, URL: "extra.html", Title: "Extra"},
		{Slot: 4, URL: "info.html", Title: "Info"},
	}
}

// DefaultSchema returns the declared settings of every screen with the
// values a freshly booted device reports.
func DefaultSchema() map[ScreenID][]Setting {
	return map[ScreenID][]Setting{
		ScreenClock: {
			{"date_format", KindInt, int64(1)},
			{"time_or_date", KindInt, int64(0)},
			{"hour_format", KindBool, true},
			{"display_on", KindInt, int64(0)},
			{"display_off", KindInt, int64(24)},
			{"off_state_off", KindInt, int64(1)},
			{"effect", KindInt, int64(1)},
			{"ripple_direction", KindBool, false},
			{"ripple_speed", KindBool, true},
			{"time_zone", KindString, "EST5EDT,M3.2.0,M11.1.0"},
		},
		ScreenLEDs: {
			{"backlights", KindBool, false},
			{"backlight_red", KindInt, int64(7)},
			{"backlight_green", KindInt, int64(7)},
			{"backlight_blue", KindInt, int64(7)},
			{"underlights", KindBool, false},
			{"underlight_red", KindInt, int64(7)},
			{"underlight_green", KindInt, int64(7)},
			{"underlight_blue", KindInt, int64(7)},
			{"baselights", KindBool, false},
			{"baselight_red", KindInt, int64(7)},
			{"baselight_green", KindInt, int64(7)},
			{"baselight_blue", KindInt, int64(7)},
		},
		ScreenExtras: {
			{"command", KindString, "a command"},
		},
		ScreenInfo: {
			{"esp_boot_version", KindString, "1234"},
			{"esp_free_heap", KindString, "5678"},
			{"esp_sketch_size", KindString, "90123"},
			{"esp_sketch_space", KindString, "4567"},
			{"esp_flash_size", KindString, "8901"},
			{"esp_chip_id", KindString, "chip id"},
			{"wifi_ip_address", KindString, "192.168.1.1"},
			{"wifi_mac_address", KindString, "0E:12:34:56:78"},
			{"wifi_ssid", KindString, "STC-Wonderful"},
			{"up_time", KindString, "2567 days 12:00:01"},
			{"hostname", KindString, "timeflies"},
			{"software_revision", KindString, "dev"},
		},
	}
}
