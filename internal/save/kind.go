package save

import "strings"

// Kind is the category of a save, taken from the directory it lives in.
type Kind int

const (
	Multiplayer Kind = iota
	Singleplayer
	MultiplayerClient
)

// String returns the directory name used by the game for k.
func (k Kind) String() string {
	switch k {
	case Singleplayer:
		return "Singleplayer"
	case MultiplayerClient:
		return "MultiplayerClient"
	default:
		return "Multiplayer"
	}
}

// Classify derives the kind of the save at path. "MultiplayerClient" is
// checked first because it contains "Multiplayer"; anything unrecognised is
// [Multiplayer].
func Classify(path string) Kind {
	switch {
	case strings.Contains(path, MultiplayerClient.String()):
		return MultiplayerClient
	case strings.Contains(path, Singleplayer.String()):
		return Singleplayer
	default:
		return Multiplayer
	}
}
