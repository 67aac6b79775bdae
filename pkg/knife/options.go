package knife

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMinPointDistance is the default decimation threshold, in overlay-local units.
const DefaultMinPointDistance = 8

// Decimation selects how the recorder compares the distance between the new point
// and the previous one against MinPointDistance.
type Decimation int

const (
	// DecimateLegacy compares the squared distance directly against
	// MinPointDistance, so the effective radius is its square root (about 2.83
	// units for the default of 8). Existing graphs were edited with this radius.
	DecimateLegacy Decimation = iota

	// DecimateSquared compares the squared distance against MinPointDistance
	// squared, so the radius is exactly MinPointDistance.
	DecimateSquared
)

func (d Decimation) String() string {
	switch d {
	case DecimateLegacy:
		return "legacy"
	case DecimateSquared:
		return "squared"
	default:
		return fmt.Sprintf("Decimation(%d)", int(d))
	}
}

// ParseDecimation parses "legacy" or "squared". An empty string yields DecimateLegacy.
func ParseDecimation(s string) (Decimation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return DecimateLegacy, nil
	case "squared", "exact":
		return DecimateSquared, nil
	}
	return 0, fmt.Errorf("unknown decimation %q (want legacy or squared)", s)
}

// GroupBy selects which endpoint additive mode groups crossed edges by.
type GroupBy int

const (
	// GroupByDestination fuses edges that feed the same input port.
	GroupByDestination GroupBy = iota
	// GroupBySource fuses edges that leave the same output port.
	GroupBySource
)

func (g GroupBy) String() string {
	switch g {
	case GroupByDestination:
		return "destination"
	case GroupBySource:
		return "source"
	default:
		return fmt.Sprintf("GroupBy(%d)", int(g))
	}
}

// ParseGroupBy parses "destination" or "source". An empty string yields
// GroupByDestination.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "destination", "input":
		return GroupByDestination, nil
	case "source", "output":
		return GroupBySource, nil
	}
	return 0, fmt.Errorf("unknown grouping %q (want destination or source)", s)
}

// key returns the endpoint e is grouped under.
func (g GroupBy) key(e Edge) Port {
	if g == GroupBySource {
		return e.Output()
	}
	return e.Input()
}

// Options configures a Gesture.
type Options struct {
	// MinPointDistance is the decimation threshold. Zero means DefaultMinPointDistance.
	MinPointDistance float64
	Decimation       Decimation
	GroupBy          GroupBy

	// Path colours shown while the gesture is active. A zero value selects the default.
	AdditiveColor    color.RGBA
	SubtractiveColor color.RGBA

	// Logger receives debug traces and collaborator failures. Nil discards.
	Logger *log.Logger
}

// Default path colours: white for additive, orange for subtractive.
var (
	DefaultAdditiveColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DefaultSubtractiveColor = color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}
)

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		MinPointDistance: DefaultMinPointDistance,
		Decimation:       DecimateLegacy,
		GroupBy:          GroupByDestination,
		AdditiveColor:    DefaultAdditiveColor,
		SubtractiveColor: DefaultSubtractiveColor,
	}
}

func (o Options) withDefaults() Options {
	if o.MinPointDistance <= 0 {
		o.MinPointDistance = DefaultMinPointDistance
	}
	if o.AdditiveColor == (color.RGBA{}) {
		o.AdditiveColor = DefaultAdditiveColor
	}
	if o.SubtractiveColor == (color.RGBA{}) {
		o.SubtractiveColor = DefaultSubtractiveColor
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// threshold is the value squared distances are compared against.
func (o Options) threshold() float64 {
	if o.Decimation == DecimateSquared {
		return o.MinPointDistance * o.MinPointDistance
	}
	return o.MinPointDistance
}
