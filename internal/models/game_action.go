package models

import "github.com/google/uuid"

// GameActionRecord is one game event as queued for the historian and archived in
// game_events. ActorID and TargetID are uuid.Nil when the event has none.
type GameActionRecord struct {
	GameID     uuid.UUID              `json:"game_id"`
	Seq        int                    `json:"seq"`
	ActorID    uuid.UUID              `json:"actor_id"`
	TargetID   uuid.UUID              `json:"target_id"`
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"action_payload"`
	Timestamp  int64                  `json:"timestamp"` // epoch millis
}
