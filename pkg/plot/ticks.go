package plot

import (
	"math"
	"strconv"
)

// Tick is an axis tick in data space. The renderer positions it through the
// axis scale.
type Tick struct {
	Value float64
	Label string
}

// Ticks chooses tick values for the data range [min, max].
// Log axes tick at powers of ten; other axes use nice linear steps
// (1, 2 or 5 times a power of ten). want is the rough target count.
func Ticks(t Transform, min, max float64, want int) []Tick {
	if want < 2 {
		want = 2
	}
	if _, ok := t.(Log10); ok {
		return logTicks(min, max)
	}
	return linearTicks(min, max, want)
}

func linearTicks(min, max float64, want int) []Tick {
	if min == max {
		return []Tick{{Value: min, Label: formatTick(min)}}
	}

	step := niceStep((max - min) / float64(want-1))
	first := math.Ceil(min/step) * step

	var ticks []Tick
	for v := first; v <= max+step/1e6; v += step {
		// Snap near-zero values produced by float accumulation.
		if math.Abs(v) < step/1e6 {
			v = 0
		}
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func logTicks(min, max float64) []Tick {
	if min <= 0 {
		min = math.SmallestNonzeroFloat64
	}
	lo := int(math.Floor(math.Log10(min)))
	hi := int(math.Ceil(math.Log10(max)))

	var ticks []Tick
	for e := lo; e <= hi; e++ {
		v := math.Pow(10, float64(e))
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// niceStep rounds a raw step up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch frac := raw / mag; {
	case frac <= 1:
		return mag
	case frac <= 2:
		return 2 * mag
	case frac <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e6 || abs < 1e-3) {
		return strconv.FormatFloat(v, 'e', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
