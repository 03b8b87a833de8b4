package event

// Op identifies a recorded event.
type Op uint8

const (
	OpBeginObject Op = iota
	OpEndObject
	OpBeginArray
	OpEndArray
	OpKey
	OpNull
	OpScalar
)

var opNames = [...]string{
	OpBeginObject: "begin-object",
	OpEndObject:   "end-object",
	OpBeginArray:  "begin-array",
	OpEndArray:    "end-array",
	OpKey:         "key",
	OpNull:        "null",
	OpScalar:      "scalar",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Event is one recorded Sink call.
type Event struct {
	Name   string // OpKey only
	Scalar Scalar // OpScalar only
	Op     Op
}

// Tape records events in order. The zero value is ready to use.
type Tape struct {
	events []Event
}

func (t *Tape) BeginObject() error { return t.push(Event{Op: OpBeginObject}) }
func (t *Tape) EndObject() error   { return t.push(Event{Op: OpEndObject}) }
func (t *Tape) BeginArray() error  { return t.push(Event{Op: OpBeginArray}) }
func (t *Tape) EndArray() error    { return t.push(Event{Op: OpEndArray}) }
func (t *Tape) Key(name string) error {
	return t.push(Event{Op: OpKey, Name: name})
}
func (t *Tape) Null() error { return t.push(Event{Op: OpNull}) }
func (t *Tape) Scalar(s Scalar) error {
	return t.push(Event{Op: OpScalar, Scalar: s})
}

func (t *Tape) push(e Event) error {
	t.events = append(t.events, e)
	return nil
}

// Events returns the recorded events. The slice is owned by the tape.
func (t *Tape) Events() []Event {
	return t.events
}

func (t *Tape) Len() int {
	return len(t.events)
}

// Single returns the only event when the tape holds exactly one leaf
// (a null or a scalar).
func (t *Tape) Single() (Event, bool) {
	if len(t.events) != 1 {
		return Event{}, false
	}
	return t.events[0], true
}

// Replay sends every recorded event to s, stopping at the first error.
// The returned Op identifies the event s rejected.
func (t *Tape) Replay(s Sink) (Op, error) {
	for _, e := range t.events {
		var err error
		switch e.Op {
		case OpBeginObject:
			err = s.BeginObject()
		case OpEndObject:
			err = s.EndObject()
		case OpBeginArray:
			err = s.BeginArray()
		case OpEndArray:
			err = s.EndArray()
		case OpKey:
			err = s.Key(e.Name)
		case OpNull:
			err = s.Null()
		case OpScalar:
			err = s.Scalar(e.Scalar)
		}
		if err != nil {
			return e.Op, err
		}
	}
	return 0, nil
}

// Reset empties the tape, keeping its capacity.
func (t *Tape) Reset() {
	clear(t.events)
	t.events = t.events[:0]
}

// Cap reports the retained event capacity.
func (t *Tape) Cap() int {
	return cap(t.events)
}
