package sfh

import (
	"bytes"
	_ "embed"
)

// milkywayData is a delayed-tau reference history resembling the Milky
// Way: SFR rising to ~5 Msun/yr near 3.5 Gyr, declining to ~1 Msun/yr
// today. Used whenever a configuration names no history file.
//
//go:embed data/milkyway.sfh
var milkywayData []byte

// MilkyWay returns the bundled reference history.
func MilkyWay(gamma float64) *History {
	raw, err := Parse(bytes.NewReader(milkywayData))
	if err != nil {
		panic("sfh: embedded milkyway history corrupt: " + err.Error())
	}
	h, err := New(raw, gamma)
	if err != nil {
		panic("sfh: embedded milkyway history corrupt: " + err.Error())
	}
	return h
}
