// Package companion reads and edits the two rescuable companions, Kelvin and
// Virginia, inside a loaded save.
//
// Companion state is spread over three places in the save files: an actor
// record and a kill statistic in SaveData.json, and a dead flag in
// GameStateSaveData.json. [FindActor] builds a view over the actor record;
// [Revive] edits all three places together.
package companion

import (
	"strconv"
	"strings"
)

// TypeID is the actor type id used by the save format.
type TypeID int64

// Known companion type ids.
const (
	Kelvin   TypeID = 9
	Virginia TypeID = 10
)

// String returns the companion name for known ids and the number otherwise.
func (id TypeID) String() string {
	if c, ok := Lookup(id); ok {
		return c.Name
	}
	return strconv.FormatInt(int64(id), 10)
}

// Companion is an entry of the fixed companion table.
type Companion struct {
	ID   TypeID
	Name string

	// DeadFlag is the boolean property of Data.GameState recording that the
	// companion died.
	DeadFlag string
}

var companions = [...]Companion{
	{ID: Kelvin, Name: "Kelvin", DeadFlag: "IsRobbyDead"},
	{ID: Virginia, Name: "Virginia", DeadFlag: "IsVirginiaDead"},
}

// Known returns the companion table.
func Known() []Companion {
	out := make([]Companion, len(companions))
	copy(out, companions[:])
	return out
}

// Lookup returns the companion with the given type id.
func Lookup(id TypeID) (Companion, bool) {
	for _, c := range companions {
		if c.ID == id {
			return c, true
		}
	}
	return Companion{}, false
}

// ByName returns the companion whose name matches name, ignoring case.
func ByName(name string) (Companion, bool) {
	for _, c := range companions {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Companion{}, false
}

// ParseTypeID accepts a companion name or a numeric type id.
func ParseTypeID(s string) (TypeID, error) {
	if c, ok := ByName(s); ok {
		return c.ID, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &UnknownCompanionError{Name: s}
	}
	return TypeID(n), nil
}
