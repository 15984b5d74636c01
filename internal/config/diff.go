package config

import "fmt"

// Change describes one field that differs between two configs.
type Change struct {
	Field string
	Old   string
	New   string
}

// Diff compares old and new configs and returns the changed fields in
// declaration order.
func Diff(old, new *Config) []Change {
	var changes []Change
	add := func(field string, o, n any) {
		before, after := fmt.Sprint(o), fmt.Sprint(n)
		if before != after {
			changes = append(changes, Change{Field: field, Old: before, New: after})
		}
	}

	add("saves_root", old.SavesRoot, new.SavesRoot)
	add("log_level", old.LogLevel, new.LogLevel)
	add("read_mode", old.ReadMode, new.ReadMode)
	add("include_client_saves", old.IncludeClientSaves, new.IncludeClientSaves)
	add("rescue_position.x", old.RescuePosition.X, new.RescuePosition.X)
	add("rescue_position.y", old.RescuePosition.Y, new.RescuePosition.Y)
	add("rescue_position.z", old.RescuePosition.Z, new.RescuePosition.Z)

	return changes
}
