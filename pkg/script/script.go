package script

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/surface"
)

// Event kinds.
const (
	KindDown = "down"
	KindMove = "move"
	KindUp   = "up"
	KindKey  = "key"
	KindDrag = "drag"
)

// Script is a named sequence of input events.
type Script struct {
	Name   string  `toml:"name" json:"name,omitempty"`
	Events []Event `toml:"event" json:"events"`
}

// Event is one scripted input event.
type Event struct {
	Kind      string       `toml:"kind" json:"kind"`
	X         float64      `toml:"x" json:"x,omitempty"`
	Y         float64      `toml:"y" json:"y,omitempty"`
	Pointer   int          `toml:"pointer" json:"pointer,omitempty"`
	Button    string       `toml:"button" json:"button,omitempty"`
	Modifiers []string     `toml:"modifiers" json:"modifiers,omitempty"`
	Key       string       `toml:"key" json:"key,omitempty"`
	Points    [][2]float64 `toml:"points" json:"points,omitempty"`
}

// Dispatcher delivers events into a surface tree. *surface.Tree implements it.
type Dispatcher interface {
	DispatchPointer(kind surface.Kind, target *surface.Element, e *knife.PointerEvent) bool
	DispatchKey(e *knife.KeyEvent) bool
}

var _ Dispatcher = (*surface.Tree)(nil)

// Parse decodes and validates a TOML script. Unknown keys are rejected so that
// typos do not silently change a replay.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read script %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "script %s", path)
	}
	return s, nil
}

// Validate checks every event.
func (s *Script) Validate() error {
	if len(s.Events) == 0 {
		return errors.New(errors.ErrCodeInvalidScript, "script has no events")
	}
	for i, ev := range s.Events {
		if err := ev.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "event %d", i)
		}
	}
	return nil
}

// Replay dispatches every event to target through d and returns the number of
// low-level events delivered.
func (s *Script) Replay(d Dispatcher, target *surface.Element) (int, error) {
	n := 0
	for i, ev := range s.Events {
		k, err := ev.Dispatch(d, target)
		n += k
		if err != nil {
			return n, errors.Wrap(errors.ErrCodeInvalidScript, err, "event %d", i)
		}
	}
	return n, nil
}

// Validate checks the event's kind, button, modifiers and key.
func (ev Event) Validate() error {
	_, err := ev.expand()
	return err
}

// Dispatch delivers the event to target through d and returns the number of
// low-level events delivered. A drag delivers several.
func (ev Event) Dispatch(d Dispatcher, target *surface.Element) (int, error) {
	steps, err := ev.expand()
	if err != nil {
		return 0, err
	}
	for _, st := range steps {
		if st.key != nil {
			d.DispatchKey(st.key)
			continue
		}
		d.DispatchPointer(st.kind, target, st.pointer)
	}
	return len(steps), nil
}

type step struct {
	kind    surface.Kind
	pointer *knife.PointerEvent
	key     *knife.KeyEvent
}

func (ev Event) expand() ([]step, error) {
	mods, err := ParseModifiers(ev.Modifiers)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(ev.Kind) {
	case KindKey:
		if ev.Key == "" {
			return nil, errors.New(errors.ErrCodeInvalidScript, "key event without key")
		}
		return []step{{key: &knife.KeyEvent{Key: ParseKey(ev.Key), Modifiers: mods}}}, nil

	case KindMove:
		return []step{ev.pointerStep(surface.PointerMove, knife.ButtonNone, mods, orb.Point{ev.X, ev.Y})}, nil

	case KindDown, KindUp:
		button, err := ParseButton(ev.Button)
		if err != nil {
			return nil, err
		}
		kind := surface.PointerDown
		if strings.EqualFold(ev.Kind, KindUp) {
			kind = surface.PointerUp
		}
		return []step{ev.pointerStep(kind, button, mods, orb.Point{ev.X, ev.Y})}, nil

	case KindDrag:
		if len(ev.Points) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidScript, "drag needs at least 2 points, got %d", len(ev.Points))
		}
		button, err := ParseButton(ev.Button)
		if err != nil {
			return nil, err
		}
		steps := make([]step, 0, len(ev.Points)+1)
		steps = append(steps, ev.pointerStep(surface.PointerDown, button, mods, ev.Points[0]))
		for _, p := range ev.Points[1:] {
			steps = append(steps, ev.pointerStep(surface.PointerMove, knife.ButtonNone, mods, p))
		}
		last := ev.Points[len(ev.Points)-1]
		return append(steps, ev.pointerStep(surface.PointerUp, button, mods, last)), nil

	case "":
		return nil, errors.New(errors.ErrCodeInvalidScript, "event without kind")
	}
	return nil, errors.New(errors.ErrCodeInvalidScript, "unknown event kind %q", ev.Kind)
}

func (ev Event) pointerStep(kind surface.Kind, b knife.Button, mods knife.Modifiers, pos orb.Point) step {
	return step{kind: kind, pointer: &knife.PointerEvent{
		PointerID: ev.Pointer,
		Button:    b,
		Modifiers: mods,
		Position:  pos,
	}}
}

// ParseButton maps a button name to a knife.Button. The empty name is the
// right button.
func ParseButton(name string) (knife.Button, error) {
	switch strings.ToLower(name) {
	case "", "right", "secondary":
		return knife.ButtonRight, nil
	case "left", "primary":
		return knife.ButtonLeft, nil
	case "middle":
		return knife.ButtonMiddle, nil
	}
	return knife.ButtonNone, errors.New(errors.ErrCodeInvalidScript, "unknown button %q", name)
}

// ParseModifiers maps modifier names to a knife.Modifiers set.
func ParseModifiers(names []string) (knife.Modifiers, error) {
	var mods knife.Modifiers
	for _, name := range names {
		switch strings.ToLower(name) {
		case "shift":
			mods |= knife.ModShift
		case "control", "ctrl":
			mods |= knife.ModControl
		case "alt", "option":
			mods |= knife.ModAlt
		case "command", "cmd", "meta":
			mods |= knife.ModCommand
		default:
			return 0, errors.New(errors.ErrCodeInvalidScript, "unknown modifier %q", name)
		}
	}
	return mods, nil
}

// ParseKey normalizes a key name. "esc" is accepted for escape.
func ParseKey(name string) knife.Key {
	k := strings.ToLower(name)
	if k == "esc" {
		return knife.KeyEscape
	}
	return knife.Key(k)
}
