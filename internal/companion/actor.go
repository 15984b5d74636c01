package companion

import (
	"errors"
	"fmt"

	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
)

// Paths inside the decoded save files.
const (
	saveDataFile    = "SaveData.json"
	gameStateFile   = "GameStateSaveData.json"
	playerStateFile = "PlayerStateSaveData.json"

	actorsPath      = "Data.VailWorldSim.Actors"
	killStatsPath   = "Data.VailWorldSim.KillStatsList"
	gameStatePath   = "Data.GameState"
	playerStatePath = "Data.PlayerState._entries"
)

// Files gives access to decoded save files by name. [*save.Document]
// implements it.
type Files interface {
	File(name string) (*jsontree.Node, bool)
}

// Status is the liveness of an actor, derived from its health.
type Status int

const (
	Alive Status = iota
	Deceased
)

func (s Status) String() string {
	if s == Deceased {
		return "Deceased"
	}
	return "Alive"
}

// StatusOf maps a health value to a status. Zero counts as deceased.
func StatusOf(health float64) Status {
	if health <= 0 {
		return Deceased
	}
	return Alive
}

// Actor is a view of one actor record in SaveData.json. Its cells write
// straight into the owning document. Status is computed when the actor is
// found and is not updated by later edits; call [FindActor] again for a
// fresh value.
type Actor struct {
	TypeID TypeID
	Status Status

	Health jsontree.Cell
	State  jsontree.Cell
	X      jsontree.Cell
	Y      jsontree.Cell
	Z      jsontree.Cell
}

// FindActor returns the first actor in Data.VailWorldSim.Actors whose TypeId
// equals id. The format does not expect duplicates; if there are any, later
// records are ignored.
func FindActor(doc Files, id TypeID) (*Actor, error) {
	arr, err := lookup(doc, saveDataFile, actorsPath)
	if err != nil {
		return nil, err
	}
	elem, err := jsontree.FindFirst(arr, "TypeId", jsontree.Equals(int64(id)))
	if errors.Is(err, jsontree.ErrNoMatch) {
		return nil, &EntityNotFoundError{Entity: "actor", TypeID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("companion: %s: %w", actorsPath, err)
	}

	rec := elem.Get()
	a := &Actor{TypeID: id}
	for _, f := range []struct {
		cell *jsontree.Cell
		path string
	}{
		{&a.Health, "Stats.Health"},
		{&a.State, "State"},
		{&a.X, "Position.x"},
		{&a.Y, "Position.y"},
		{&a.Z, "Position.z"},
	} {
		if *f.cell, err = jsontree.Resolve(rec, f.path); err != nil {
			return nil, fmt.Errorf("companion: actor %d: %w", int64(id), err)
		}
	}

	health, err := a.Health.Float()
	if err != nil {
		return nil, fmt.Errorf("companion: actor %d health: %w", int64(id), err)
	}
	a.Status = StatusOf(health)
	return a, nil
}

// HealthValue reads the current health.
func (a *Actor) HealthValue() (float64, error) {
	return a.Health.Float()
}

// Position reads the current position.
func (a *Actor) Position() (Vec3, error) {
	var p Vec3
	var err error
	if p.X, err = a.X.Float(); err != nil {
		return Vec3{}, err
	}
	if p.Y, err = a.Y.Float(); err != nil {
		return Vec3{}, err
	}
	if p.Z, err = a.Z.Float(); err != nil {
		return Vec3{}, err
	}
	return p, nil
}

// lookup resolves path inside the named file of doc.
func lookup(doc Files, file, path string) (*jsontree.Node, error) {
	root, ok := doc.File(file)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotLoaded, file)
	}
	n, err := jsontree.Lookup(root, path)
	if err != nil {
		return nil, fmt.Errorf("companion: %s: %w", file, err)
	}
	return n, nil
}
