package timeline

import (
	"math"

	"github.com/ivlev/sig2gif/internal/pathdata"
)

// minShare keeps a zero-length stroke from inheriting the default duration.
const minShare = 1

// Sequence spreads total milliseconds over specs so the strokes draw one
// after another, each taking time proportional to its length. Delays are
// chained from the first spec's delay. Paths without measurable length get
// minShare; if nothing can be measured the time is split evenly.
func Sequence(specs []PathSpec, total float64) []PathSpec {
	out := make([]PathSpec, len(specs))
	copy(out, specs)
	if len(out) == 0 || total <= 0 {
		return out
	}

	lengths := make([]float64, len(out))
	sum := 0.0
	for i, s := range out {
		if l, err := pathdata.Length(s.D); err == nil {
			lengths[i] = l
			sum += l
		}
	}

	delay := out[0].Delay
	for i := range out {
		share := total / float64(len(out))
		if sum > 0 {
			share = math.Max(minShare, total*lengths[i]/sum)
		}
		out[i].Delay = delay
		out[i].Duration = share
		delay += share
	}
	return out
}
