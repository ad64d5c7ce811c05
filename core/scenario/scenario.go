// Package scenario replays scripted building traffic deterministically.
//
// A scenario names a building, an ordered list of steps and optionally the
// floors every car is expected to stand on once the steps are applied:
//
//	building: {floors: 10, cars: 2, policy: fcfs}
//	steps:
//	  - call: {floor: 5, direction: up}
//	  - tick: 5
//	  - cabin: {car: 1, floor: 9}
//	  - tick: 4
//	expect:
//	  floors: [9, 0]
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidStep is returned for steps that set zero or several actions.
var ErrInvalidStep = errors.New("invalid scenario step")

// Building describes the simulated building.
type Building struct {
	Floors int    `yaml:"floors" json:"floors"`
	Cars   int    `yaml:"cars" json:"cars"`
	Policy string `yaml:"policy" json:"policy"`
}

// Call is a hall call step.
type Call struct {
	Floor     int    `yaml:"floor" json:"floor"`
	Direction string `yaml:"direction" json:"direction"`
}

// Cabin is a cabin request step. Car is the 1-based car id.
type Cabin struct {
	Car   int `yaml:"car" json:"car"`
	Floor int `yaml:"floor" json:"floor"`
}

// Step holds exactly one action.
type Step struct {
	Call   *Call  `yaml:"call,omitempty" json:"call,omitempty"`
	Cabin  *Cabin `yaml:"cabin,omitempty" json:"cabin,omitempty"`
	Policy string `yaml:"policy,omitempty" json:"policy,omitempty"`
	Tick   int    `yaml:"tick,omitempty" json:"tick,omitempty"`
	Floors int    `yaml:"floors,omitempty" json:"floors,omitempty"`
}

// Expect holds the assertions checked after the last step.
type Expect struct {
	Floors []int `yaml:"floors" json:"floors"`
}

// Scenario is a scripted run.
type Scenario struct {
	Name     string   `yaml:"name" json:"name"`
	Building Building `yaml:"building" json:"building"`
	Steps    []Step   `yaml:"steps" json:"steps"`
	Expect   *Expect  `yaml:"expect,omitempty" json:"expect,omitempty"`
}

func (s Step) kind() (string, error) {
	kinds := make([]string, 0, 1)
	if s.Call != nil {
		kinds = append(kinds, "call")
	}
	if s.Cabin != nil {
		kinds = append(kinds, "cabin")
	}
	if s.Policy != "" {
		kinds = append(kinds, "policy")
	}
	if s.Tick != 0 {
		kinds = append(kinds, "tick")
	}
	if s.Floors != 0 {
		kinds = append(kinds, "floors")
	}
	if len(kinds) != 1 {
		return "", fmt.Errorf("%w: want one action, got %v", ErrInvalidStep, kinds)
	}
	return kinds[0], nil
}

// Validate checks every step holds a single action.
func (s Scenario) Validate() error {
	for i, st := range s.Steps {
		k, err := st.kind()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if k == "tick" && st.Tick < 0 {
			return fmt.Errorf("step %d: %w: negative tick count", i+1, ErrInvalidStep)
		}
	}
	return nil
}

// Load reads a scenario from a JSON or YAML file.
func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	s, err := Decode(f, ext)
	if err != nil {
		return Scenario{}, fmt.Errorf("load %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode reads from r to decode a Scenario.
func Decode(r io.Reader, format string) (Scenario, error) {
	var s Scenario
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return s, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("unsupported format: %s", format)
	}
	return s, s.Validate()
}
