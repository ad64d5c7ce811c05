package dispatch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/liftsim/core/elevator"
	"github.com/kilianp07/liftsim/core/model"
)

func TestScore(t *testing.T) {
	up, down, idle := model.DirectionUp, model.DirectionDown, model.DirectionIdle
	inf := math.Inf(1)
	tests := []struct {
		name      string
		dir       model.Direction
		floor     int
		callFloor int
		callDir   model.Direction
		want      float64
	}{
		{"up same direction ahead", up, 2, 6, up, 4},
		{"up same direction same floor", up, 4, 4, up, 0},
		{"up same direction behind", up, 5, 2, up, inf},
		{"up opposite below", up, 7, 3, down, 12},
		{"up opposite above", up, 3, 7, down, inf},
		{"down same direction ahead", down, 8, 3, down, 5},
		{"down same direction behind", down, 3, 8, down, inf},
		{"down opposite above", down, 2, 5, up, 9},
		{"down opposite below", down, 5, 2, up, inf},
		{"idle above", idle, 8, 5, up, 3},
		{"idle below", idle, 1, 5, down, 4},
		{"idle same floor", idle, 5, 5, down, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.dir, tt.floor, tt.callFloor, tt.callDir))
		})
	}
}

func TestOnSweep(t *testing.T) {
	assert.True(t, onSweep(model.DirectionUp, 2, 6, model.DirectionUp))
	assert.True(t, onSweep(model.DirectionDown, 6, 6, model.DirectionDown))
	assert.False(t, onSweep(model.DirectionUp, 7, 6, model.DirectionUp))
	assert.False(t, onSweep(model.DirectionUp, 2, 6, model.DirectionDown))
	assert.False(t, onSweep(model.DirectionIdle, 2, 6, model.DirectionIdle))
}

func TestFCFSAssignerSelect(t *testing.T) {
	cars := []*elevator.Car{elevator.NewCar(1, 10), elevator.NewCar(2, 10)}
	a := FCFSAssigner{}
	assert.True(t, a.Queues())
	assert.Equal(t, model.PolicyFCFS, a.Policy())

	idx, _ := a.Select(cars, model.HallCall{Floor: 3, Direction: model.DirectionUp})
	assert.Equal(t, 0, idx)
	cars[0].RequestTarget(3)
	idx, _ = a.Select(cars, model.HallCall{Floor: 3, Direction: model.DirectionUp})
	assert.Equal(t, 1, idx)
	cars[1].RequestTarget(5)
	idx, _ = a.Select(cars, model.HallCall{Floor: 3, Direction: model.DirectionUp})
	assert.Equal(t, -1, idx)
}

func TestNearestCarAssignerSelect(t *testing.T) {
	cars := []*elevator.Car{elevator.NewCar(1, 10), elevator.NewCar(2, 10), elevator.NewCar(3, 10)}
	a := NearestCarAssigner{}
	assert.False(t, a.Queues())
	assert.Equal(t, model.PolicyNearestCar, a.Policy())

	// all idle at ground floor: equal scores keep the first car
	idx, score := a.Select(cars, model.HallCall{Floor: 4, Direction: model.DirectionUp})
	assert.Equal(t, 0, idx)
	assert.Equal(t, float64(4), score)

	// car 3 heads up from floor 1
	cars[2].RequestTarget(9)
	cars[2].Advance()
	idx, score = a.Select(cars, model.HallCall{Floor: 5, Direction: model.DirectionUp})
	assert.Equal(t, 2, idx)
	assert.Equal(t, float64(4), score)

	assert.Equal(t, -1, func() int { i, _ := a.Select(nil, model.HallCall{}); return i }())
}

func TestNearestCarTieBreakOnSweep(t *testing.T) {
	a := NearestCarAssigner{}
	call := model.HallCall{Floor: 6, Direction: model.DirectionUp}
	headingUp := func(id int) *elevator.Car {
		c := elevator.NewCar(id, 10)
		c.RequestTarget(9)
		c.Advance()
		c.Advance()
		return c
	}

	// both cars sweep up from floor 2: the earlier one wins
	idx, score := a.Select([]*elevator.Car{headingUp(1), headingUp(2)}, call)
	assert.Equal(t, 0, idx)
	assert.Equal(t, float64(4), score)

	// an idle car at floor 2 ties with a sweeping one: the sweeping one wins
	idle := elevator.NewCar(1, 10)
	idle.RequestTarget(2)
	for i := 0; i < 3; i++ {
		idle.Advance()
	}
	assert.True(t, idle.Idle())
	idx, score = a.Select([]*elevator.Car{idle, headingUp(2)}, call)
	assert.Equal(t, 1, idx)
	assert.Equal(t, float64(4), score)
}
