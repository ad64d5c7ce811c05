package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{"up": DirectionUp, "DOWN": DirectionDown, " idle ": DirectionIdle}
	for in, want := range cases {
		got, err := ParseDirection(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v got %v", in, want, got)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrUnknownDirection) {
		t.Fatalf("expected ErrUnknownDirection got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("nearest")
	if err != nil || p != PolicyNearestCar {
		t.Fatalf("nearest: %v %v", p, err)
	}
	p, err = ParsePolicy("FCFS")
	if err != nil || p != PolicyFCFS {
		t.Fatalf("fcfs: %v %v", p, err)
	}
	if _, err := ParsePolicy("random"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy got %v", err)
	}
}

func TestCarStatusJSON(t *testing.T) {
	st := CarStatus{ID: 1, CurrentFloor: 3, Direction: DirectionUp, Targets: []int{5}, State: CarMoving}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"current_floor":3,"direction":"up","targets":[5],"state":"moving"}`
	if string(data) != want {
		t.Fatalf("expected %s got %s", want, data)
	}
	var back CarStatus
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Direction != DirectionUp || back.State != CarMoving {
		t.Fatalf("bad decode %#v", back)
	}
}

func TestInvalidDirectionMarshal(t *testing.T) {
	if _, err := json.Marshal(struct{ D Direction }{Direction(9)}); err == nil {
		t.Fatalf("expected error")
	}
}
