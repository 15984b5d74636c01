package companion

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MrWong99/sotf-rescue/internal/observe"
	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
)

const (
	// ActiveState is the actor State value of a companion that follows the
	// player normally.
	ActiveState = 2

	// ReviveHealth is the health a revived companion gets.
	ReviveHealth = 100
)

// Vec3 is a world position.
type Vec3 struct {
	X, Y, Z float64
}

// RescuePosition is a safe open spot near the starting beach.
var RescuePosition = Vec3{X: -627, Y: 100, Z: 533}

// Revive brings the actor with type id back to life. It clears the kill
// statistic of that type, sets the actor's health to [ReviveHealth] and its
// state to [ActiveState], and for known companions clears the companion's
// dead flag in the game state.
//
// The edits are applied in that order and are not rolled back: if a later
// step fails, the earlier edits stay in the document.
func Revive(ctx context.Context, doc Files, id TypeID) (err error) {
	defer func() { observe.DefaultMetrics().RecordMutation(ctx, "revive", id.String(), err) }()

	if err := clearKillStat(doc, id); err != nil {
		return err
	}

	a, err := FindActor(doc, id)
	if err != nil {
		return err
	}
	if err := a.Health.SetFloat(ReviveHealth); err != nil {
		return err
	}
	if err := a.State.SetInt(ActiveState); err != nil {
		return err
	}

	if c, ok := Lookup(id); ok {
		gs, err := lookup(doc, gameStateFile, gameStatePath)
		if err != nil {
			return err
		}
		flag, err := jsontree.Field(gs, c.DeadFlag)
		if err != nil {
			return fmt.Errorf("companion: %s: %w", gameStatePath, err)
		}
		if err := flag.SetBool(false); err != nil {
			return err
		}
	}

	observe.Logger(ctx).Info("companion revived", "companion", id, "type_id", int64(id))
	return nil
}

// clearKillStat resets PlayerKilled of the kill statistic for id. The game
// has stored it both as a count and as a boolean; the existing kind is kept.
func clearKillStat(doc Files, id TypeID) error {
	arr, err := lookup(doc, saveDataFile, killStatsPath)
	if err != nil {
		return err
	}
	elem, err := jsontree.FindFirst(arr, "TypeId", jsontree.Equals(int64(id)))
	if errors.Is(err, jsontree.ErrNoMatch) {
		return &EntityNotFoundError{Entity: "kill stat", TypeID: id}
	}
	if err != nil {
		return fmt.Errorf("companion: %s: %w", killStatsPath, err)
	}

	killed, err := jsontree.Field(elem.Get(), "PlayerKilled")
	if err != nil {
		return fmt.Errorf("companion: kill stat %d: %w", int64(id), err)
	}
	if cur := killed.Get(); cur != nil && cur.Kind() == jsontree.KindBool {
		return killed.SetBool(false)
	}
	return killed.SetInt(0)
}

// Reposition moves the actor to p. Any finite coordinates are accepted; all
// three are checked before anything is written.
func Reposition(ctx context.Context, a *Actor, p Vec3) (err error) {
	defer func() { observe.DefaultMetrics().RecordMutation(ctx, "reposition", a.TypeID.String(), err) }()

	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("companion: reposition %s: %w", a.TypeID, jsontree.ErrNotFinite)
		}
	}
	if err := a.X.SetFloat(p.X); err != nil {
		return err
	}
	if err := a.Y.SetFloat(p.Y); err != nil {
		return err
	}
	if err := a.Z.SetFloat(p.Z); err != nil {
		return err
	}

	observe.Logger(ctx).Info("companion moved", "companion", a.TypeID, "x", p.X, "y", p.Y, "z", p.Z)
	return nil
}

// SetHealth overwrites the actor's health. It does not touch the kill
// statistic or dead flags; use [Revive] to bring a dead companion back.
func SetHealth(ctx context.Context, a *Actor, health float64) (err error) {
	defer func() { observe.DefaultMetrics().RecordMutation(ctx, "set_health", a.TypeID.String(), err) }()

	if err := a.Health.SetFloat(health); err != nil {
		return err
	}
	observe.Logger(ctx).Info("companion health set", "companion", a.TypeID, "health", health)
	return nil
}

// PlayerPosition reads the player's position from the first entry of
// Data.PlayerState._entries whose Name contains "player.position".
func PlayerPosition(doc Files) (Vec3, error) {
	arr, err := lookup(doc, playerStateFile, playerStatePath)
	if err != nil {
		return Vec3{}, err
	}
	elem, err := jsontree.FindFirst(arr, "Name", jsontree.Contains("player.position"))
	if errors.Is(err, jsontree.ErrNoMatch) {
		return Vec3{}, fmt.Errorf("companion: player position: %w", ErrEntityNotFound)
	}
	if err != nil {
		return Vec3{}, fmt.Errorf("companion: %s: %w", playerStatePath, err)
	}

	values, err := jsontree.Lookup(elem.Get(), "FloatArrayValue")
	if err != nil {
		return Vec3{}, fmt.Errorf("companion: player position: %w", err)
	}
	if !values.IsArray() || values.Len() < 3 {
		return Vec3{}, fmt.Errorf("companion: player position: %w: want an array of 3 numbers", jsontree.ErrKind)
	}
	var xyz [3]float64
	for i := range xyz {
		n, _ := values.Index(i)
		f, ok := n.FloatValue()
		if !ok {
			return Vec3{}, fmt.Errorf("companion: player position[%d]: %w: is %s", i, jsontree.ErrKind, n.Kind())
		}
		xyz[i] = f
	}
	return Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
