package main

// Spawn state for a freshly admitted player. The shell renders the bird
// here before the first movement sample arrives.
const (
	DefaultPlayerName = "Anonymous"
	SpawnX            = 100.0
	SpawnY            = 245.0
)

// Player is the last-known state of one connected peer. Field tags mirror
// the property names the browser shell reads.
type Player struct {
	ID       string  `json:"playerId" msgpack:"playerId"`
	Name     string  `json:"playerName" msgpack:"playerName"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Angle    float64 `json:"angle" msgpack:"angle"`
	Dist     float64 `json:"distToWorldLeftBound" msgpack:"distToWorldLeftBound"`
	Obstacle int     `json:"obstacleNum" msgpack:"obstacleNum"`
}

// NewPlayer creates a player at the spawn point with the placeholder name.
func NewPlayer(id string) *Player {
	return &Player{
		ID:   id,
		Name: DefaultPlayerName,
		X:    SpawnX,
		Y:    SpawnY,
	}
}
