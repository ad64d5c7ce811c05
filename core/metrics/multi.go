package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAssignment(ev AssignmentEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordCarState forwards car snapshots.
func (m *MultiSink) RecordCarState(ev CarStateEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CarStateRecorder); ok {
			if err := rec.RecordCarState(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordArrival forwards arrival events.
func (m *MultiSink) RecordArrival(ev ArrivalEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ArrivalRecorder); ok {
			if err := rec.RecordArrival(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPolicyChange forwards policy switches.
func (m *MultiSink) RecordPolicyChange(ev PolicyChangeEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PolicyRecorder); ok {
			if err := rec.RecordPolicyChange(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
