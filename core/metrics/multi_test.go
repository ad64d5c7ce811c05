package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordAssignment(AssignmentEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordArrival(ArrivalEvent) error {
	r.count++
	return nil
}

type failSink struct{}

func (failSink) RecordAssignment(AssignmentEvent) error { return errors.New("boom") }

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordAssignment(AssignmentEvent{CarID: 1}); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := m.RecordArrival(ArrivalEvent{CarID: 1}); err != nil {
		t.Fatalf("record arrival: %v", err)
	}
	// recordSink is not a CarStateRecorder and is skipped
	if err := m.RecordCarState(CarStateEvent{}); err != nil {
		t.Fatalf("record car state: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
}

func TestMultiSink_Error(t *testing.T) {
	s := &recordSink{}
	m := NewMultiSink(failSink{}, s)
	if err := m.RecordAssignment(AssignmentEvent{}); err == nil {
		t.Fatal("expected error")
	}
	if s.count != 0 {
		t.Fatalf("sink after failure should not be called")
	}
}
