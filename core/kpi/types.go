// Package kpi measures hall call service quality from the dispatch event
// stream.
package kpi

import "github.com/kilianp07/liftsim/core/model"

// WaitRecord describes one served hall call.
type WaitRecord struct {
	CallID    string          `json:"call_id"`
	CarID     int             `json:"car_id"`
	Floor     int             `json:"floor"`
	Direction model.Direction `json:"direction"`
	Policy    model.Policy    `json:"policy"`
	// WaitTicks counts ticks between acceptance and the car clearing the floor.
	WaitTicks uint64 `json:"wait_ticks"`
}

// Summary aggregates wait times in ticks.
type Summary struct {
	Accepted  int     `json:"accepted"`
	Served    int     `json:"served"`
	Dropped   int     `json:"dropped"`
	Abandoned int     `json:"abandoned"`
	Mean      float64 `json:"mean_wait_ticks"`
	StdDev    float64 `json:"stddev_wait_ticks"`
	P50       float64 `json:"p50_wait_ticks"`
	P90       float64 `json:"p90_wait_ticks"`
	Max       float64 `json:"max_wait_ticks"`
}
