// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - CallEvent: hall call accepted
//   - AssignmentEvent: a car received a hall call target
//   - ArrivalEvent: a car cleared a target floor during a tick
//   - TickEvent: fleet state after a simulation step
//   - PolicyEvent: the active assignment policy changed
//   - ResetEvent: the building was reconfigured and the fleet recreated
package events
