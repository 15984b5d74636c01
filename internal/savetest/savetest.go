// Package savetest builds Sons of the Forest save fixtures for tests.
//
// The fixtures mirror the shape of real save files: each file is an outer
// JSON object whose Data properties are string-encoded JSON documents.
package savetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/sjson"
)

// Core file names, duplicated here so the helper does not depend on the
// packages under test.
const (
	SaveDataFile    = "SaveData.json"
	GameStateFile   = "GameStateSaveData.json"
	PlayerStateFile = "PlayerStateSaveData.json"
	ThumbnailFile   = "SaveDataThumbnail.png"
)

// DefaultSaveTime is the SaveTime written by [GameState].
const DefaultSaveTime = "2026-10-18T21:14:05+02:00"

// World describes the mutable parts of a SaveData fixture.
type World struct {
	KelvinHealth   string
	VirginiaHealth string
	KelvinKilled   string
	VirginiaKilled string
}

// DefaultWorld has Kelvin dead (killed by the player) and Virginia alive.
var DefaultWorld = World{
	KelvinHealth:   "0.0",
	VirginiaHealth: "85.5",
	KelvinKilled:   "1",
	VirginiaKilled: "0",
}

const vailWorldSimTemplate = `{"Actors":[` +
	`{"UniqueId":501,"TypeId":9,"FamilyId":0,"Position":{"x":-1024.5,"y":57.25,"z":812.0},"Rotation":{"x":0.0,"y":0.7071,"z":0.0,"w":0.7071},"SpawnerId":0,"ActorSeed":1283012,"State":6,"Stats":{"Health":%s,"Anger":10.0,"Fear":0.0,"Fullness":50.0,"Hydration":50.0,"Energy":80.0,"Affection":60.0},"StateFlags":0},` +
	`{"UniqueId":502,"TypeId":10,"FamilyId":0,"Position":{"x":-210.0,"y":31.5,"z":1440.25},"Rotation":{"x":0.0,"y":0.0,"z":0.0,"w":1.0},"SpawnerId":0,"ActorSeed":77123,"State":2,"Stats":{"Health":%s,"Anger":0.0,"Fear":5.0,"Fullness":70.0,"Hydration":40.0,"Energy":90.0,"Affection":75.0},"StateFlags":0},` +
	`{"UniqueId":777,"TypeId":3,"FamilyId":12,"Position":{"x":12.0,"y":100.0,"z":-5.5},"Rotation":{"x":0.0,"y":0.0,"z":0.0,"w":1.0},"SpawnerId":4,"ActorSeed":42,"State":2,"Stats":{"Health":120.0},"StateFlags":0}` +
	`],"KillStatsList":[` +
	`{"TypeId":3,"PlayerKilled":4,"PlayerKilledRecently":0},` +
	`{"TypeId":9,"PlayerKilled":%s,"PlayerKilledRecently":0},` +
	`{"TypeId":10,"PlayerKilled":%s,"PlayerKilledRecently":0}` +
	`],"PlayerStats":{"Deaths":2},"Notes":"<camp> & \"base\""}`

// VailWorldSim returns the inner VailWorldSim document for w.
func VailWorldSim(w World) string {
	return fmt.Sprintf(vailWorldSimTemplate, w.KelvinHealth, w.VirginiaHealth, w.KelvinKilled, w.VirginiaKilled)
}

// GameStateInner is the inner GameState document written by [GameState].
const GameStateInner = `{"SaveTime":"` + DefaultSaveTime + `","GameDays":12,"GameType":"Normal","IsRobbyDead":true,"IsVirginiaDead":false,"CoreGameCompleted":false}`

// PlayerStateInner is the inner PlayerState document written by [PlayerState].
const PlayerStateInner = `{"_entries":[` +
	`{"Name":"player.stats.health","FloatValue":80.0},` +
	`{"Name":"player.position","FloatArrayValue":[-1200.5,80.25,900.75]},` +
	`{"Name":"player.rotation","FloatArrayValue":[0.0,0.0,0.0,1.0]}` +
	`]}`

// Wrap builds an outer save document holding each inner document as a
// string-encoded Data property, in the given key order. keysAndDocs
// alternates key and inner JSON text.
func Wrap(keysAndDocs ...string) []byte {
	var b strings.Builder
	b.WriteString(`{"Version":"0.0.0","Data":{`)
	for i := 0; i+1 < len(keysAndDocs); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(keysAndDocs[i]))
		b.WriteByte(':')
		b.WriteString(quote(keysAndDocs[i+1]))
	}
	b.WriteString(`}}`)
	return []byte(b.String())
}

// quote renders s as a JSON string without HTML escaping, matching the game.
func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}

// SaveData returns SaveData.json content for w.
func SaveData(w World) []byte { return Wrap("VailWorldSim", VailWorldSim(w)) }

// GameState returns GameStateSaveData.json content.
func GameState() []byte { return Wrap("GameState", GameStateInner) }

// GameStateAt returns GameStateSaveData.json content with the given SaveTime.
func GameStateAt(saveTime string) []byte {
	inner, err := sjson.Set(GameStateInner, "SaveTime", saveTime)
	if err != nil {
		panic("savetest: set SaveTime: " + err.Error())
	}
	return Wrap("GameState", inner)
}

// PlayerState returns PlayerStateSaveData.json content.
func PlayerState() []byte { return Wrap("PlayerState", PlayerStateInner) }

// WriteSave writes the three core files and a thumbnail into dir, creating
// it if needed.
func WriteSave(t testing.TB, dir string, w World) {
	t.Helper()
	WriteFiles(t, dir, map[string][]byte{
		SaveDataFile:    SaveData(w),
		GameStateFile:   GameState(),
		PlayerStateFile: PlayerState(),
		ThumbnailFile:   {0x89, 'P', 'N', 'G'},
	})
}

// WriteFiles writes name → content pairs into dir, creating it if needed.
func WriteFiles(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("savetest: mkdir %q: %v", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatalf("savetest: write %q: %v", name, err)
		}
	}
}

// NewSaveDir writes a default save into a fresh temporary directory and
// returns its path.
func NewSaveDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "1234567890")
	WriteSave(t, dir, DefaultWorld)
	return dir
}

// ReadFile returns the content of dir/name.
func ReadFile(t testing.TB, dir, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("savetest: read %q: %v", name, err)
	}
	return b
}
