package model

// HallCall is an external request for service at a floor.
type HallCall struct {
	ID        string    `json:"id"`
	Floor     int       `json:"floor"`
	Direction Direction `json:"direction"`
	// ReceivedTick is the dispatcher tick count when the call was accepted.
	ReceivedTick uint64 `json:"received_tick"`
}
