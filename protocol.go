package main

import "encoding/json"

// Client -> Server event names. These strings are the contract with the
// browser rendering shell and must never change.
const (
	EvtPlayerMovement = "handlePlayerMovement"
	EvtPlayerNameSet  = "playerNameSet"
	EvtSubmitScore    = "updateHighScoreList"
)

// Server -> Client event names.
const (
	EvtCurrentPlayers   = "currentPlayers"   // admission snapshot (new client only)
	EvtCurrentObstacles = "currentObstacles" // course offsets (new client only)
	EvtNewPlayer        = "newPlayer"        // announce join to everyone else
	EvtPlayerHasMoved   = "playerHasMoved"   // kinematic relay to everyone else
	EvtHighScoreList    = "updatedHighScoreList"
	EvtDisconnect       = "disconnect" // payload: the leaving connection id
)

// Envelope wraps all outgoing messages with a type field. The msgpack
// tags keep the binary encoding shape identical to the JSON one.
type Envelope struct {
	T    string      `json:"t" msgpack:"t"`
	Data interface{} `json:"d,omitempty" msgpack:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal. Inbound traffic is always JSON text frames.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// MoveMsg is a client's self-reported kinematic sample. The values are
// taken at face value; plausibility checking is out of scope.
type MoveMsg struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Dist     float64 `json:"distToWorldLeftBound"`
	Obstacle int     `json:"obstacleNum"`
}

// ScoreEntry is one row of the high score list. The name is copied at
// submission time, so later renames do not rewrite history.
type ScoreEntry struct {
	PlayerName string `json:"playerName" msgpack:"playerName"`
	Score      int    `json:"score" msgpack:"score"`
}

// The shell emits the playerNameSet and updateHighScoreList payloads as
// bare JSON values, not objects.

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeInt(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
