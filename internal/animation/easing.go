package animation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseInQuad(t float64) float64  { return t * t }
func EaseOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func EaseInCubic(t float64) float64  { return t * t * t }
func EaseOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func EaseInCirc(t float64) float64  { return 1 - math.Sqrt(1-t*t) }
func EaseOutCirc(t float64) float64 { return math.Sqrt(1 - (t-1)*(t-1)) }
func EaseInOutCirc(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-math.Pow(2*t, 2))) / 2
	}
	return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
}

var easings = map[string]Easing{
	"linear":            Linear,
	"ease_in_quad":      EaseInQuad,
	"ease_out_quad":     EaseOutQuad,
	"ease_in_out_quad":  EaseInOutQuad,
	"ease_in_cubic":     EaseInCubic,
	"ease_out_cubic":    EaseOutCubic,
	"ease_in_out_cubic": EaseInOutCubic,
	"ease_in_circ":      EaseInCirc,
	"ease_out_circ":     EaseOutCirc,
	"ease_in_out_circ":  EaseInOutCirc,
}

// EasingByName looks up an easing such as "ease_in_out_circ".
func EasingByName(name string) (Easing, error) {
	e, ok := easings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (expected one of %s)", name, strings.Join(EasingNames(), ", "))
	}
	return e, nil
}

// EasingNames lists the accepted easing names, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
