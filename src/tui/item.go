package tui

import (
	"fmt"

	"gridrelay/src/contracts"
)

// Item wraps a stored telemetry event and implements bubbles/list.Item.
type Item struct {
	Event contracts.Event
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Event.Source }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string {
	switch i.Event.Name {
	case contracts.KindEnergyUsage:
		return fmt.Sprintf("energy %.1f Wh", i.Event.WattHours)
	case contracts.KindWeather:
		return fmt.Sprintf("weather %.1f°C %s", i.Event.TemperatureC, Sanitize(i.Event.Condition))
	default:
		return string(i.Event.Name)
	}
}

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string {
	return fmt.Sprintf("%s  %s", i.Event.ArrivalTime.Format("2006-01-02 15:04:05"), Sanitize(i.Event.Source))
}
