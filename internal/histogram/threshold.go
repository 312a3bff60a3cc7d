// Package histogram infers session thresholds and day boundaries from the
// shape of a user's commit-gap and commit-hour distributions, rather than
// relying on fixed constants. All inference is deterministic: the same input
// multiset always produces the same analysis.
package histogram

import (
	"math"
	"sort"
)

const (
	// DefaultThresholdMinutes is the session-gap threshold used when the
	// gap distribution is too sparse or too flat to infer one.
	DefaultThresholdMinutes = 45

	// MinGapSamples is the minimum number of intra-day gaps required
	// before valley detection is attempted.
	MinGapSamples = 12

	// Bounds of the plausible gap domain, in minutes. Gaps outside this
	// range say nothing about session structure.
	minGapMinutes = 1
	maxGapMinutes = 480

	// gapBuckets is the number of log-spaced histogram buckets across the
	// gap domain.
	gapBuckets = 16

	// MethodValley marks a threshold inferred from a histogram valley.
	MethodValley = "valley"
	// MethodDefault marks the documented fallback.
	MethodDefault = "default"
	// MethodExplicit marks a caller-supplied threshold.
	MethodExplicit = "explicit"
)

// Bucket is one histogram bucket over the gap domain.
type Bucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// ThresholdAnalysis is the result of session-threshold inference.
type ThresholdAnalysis struct {
	// Threshold is the inferred session boundary in minutes.
	Threshold float64 `json:"threshold"`
	// Confidence in [0,1] reflects how pronounced the detected valley is.
	Confidence float64 `json:"confidence"`
	// Method is one of MethodValley, MethodDefault, MethodExplicit.
	Method string `json:"method"`
	// Histogram is the bucketed gap distribution the decision was based
	// on. Empty for explicit thresholds.
	Histogram []Bucket `json:"histogram,omitempty"`
}

// Explicit wraps a caller-chosen threshold in an analysis record.
func Explicit(minutes float64) ThresholdAnalysis {
	return ThresholdAnalysis{
		Threshold:  minutes,
		Confidence: 1,
		Method:     MethodExplicit,
	}
}

// SessionThreshold infers a session-gap threshold from intra-day commit gaps
// (minutes). The gap distribution of an active user is bimodal: a dense mass
// of short within-session gaps, a dense mass of long between-session gaps,
// and a valley between them. The valley's gap value is the natural session
// boundary. Too few gaps, or a distribution with no discernible valley,
// yields DefaultThresholdMinutes with confidence 0.
func SessionThreshold(gaps []float64) ThresholdAnalysis {
	inDomain := make([]float64, 0, len(gaps))
	for _, g := range gaps {
		if g >= minGapMinutes && g <= maxGapMinutes {
			inDomain = append(inDomain, g)
		}
	}

	buckets := bucketGaps(inDomain)

	if len(inDomain) < MinGapSamples {
		return ThresholdAnalysis{
			Threshold: DefaultThresholdMinutes,
			Method:    MethodDefault,
			Histogram: buckets,
		}
	}

	smoothed := smooth(buckets)
	idx, confidence := findValley(smoothed, buckets, len(inDomain))
	if idx < 0 {
		return ThresholdAnalysis{
			Threshold: DefaultThresholdMinutes,
			Method:    MethodDefault,
			Histogram: buckets,
		}
	}

	// Report the geometric midpoint of the valley bucket, rounded to a
	// whole minute so identical inputs print identically everywhere.
	mid := math.Sqrt(buckets[idx].Lo * buckets[idx].Hi)
	return ThresholdAnalysis{
		Threshold:  math.Round(mid),
		Confidence: confidence,
		Method:     MethodValley,
		Histogram:  buckets,
	}
}

// bucketGaps builds a log-spaced histogram across [minGapMinutes,
// maxGapMinutes]. Log spacing gives short gaps (1-10 min) the same
// resolution as long ones (1-8 h).
func bucketGaps(gaps []float64) []Bucket {
	edges := make([]float64, gapBuckets+1)
	ratio := math.Log(float64(maxGapMinutes) / float64(minGapMinutes))
	for i := 0; i <= gapBuckets; i++ {
		edges[i] = minGapMinutes * math.Exp(ratio*float64(i)/float64(gapBuckets))
	}
	edges[gapBuckets] = maxGapMinutes

	buckets := make([]Bucket, gapBuckets)
	for i := range buckets {
		buckets[i] = Bucket{Lo: edges[i], Hi: edges[i+1]}
	}

	sorted := make([]float64, len(gaps))
	copy(sorted, gaps)
	sort.Float64s(sorted)

	b := 0
	for _, g := range sorted {
		for b < gapBuckets-1 && g >= buckets[b].Hi {
			b++
		}
		buckets[b].Count++
	}
	return buckets
}

// smooth applies a 3-bucket moving average, damping single-bucket noise
// before local-minimum search.
func smooth(buckets []Bucket) []float64 {
	out := make([]float64, len(buckets))
	for i := range buckets {
		sum, n := float64(buckets[i].Count), 1.0
		if i > 0 {
			sum += float64(buckets[i-1].Count)
			n++
		}
		if i < len(buckets)-1 {
			sum += float64(buckets[i+1].Count)
			n++
		}
		out[i] = sum / n
	}
	return out
}

// sideMassFloor is the minimum share of samples each flank of a candidate
// valley must hold. A dip next to a single stray bucket is noise, not a
// boundary between two populations.
const sideMassFloor = 0.1

// findValley locates the most prominent interior local minimum: the bucket
// whose density is lowest relative to the denser of the peaks flanking it,
// with real sample mass on both sides. Returns index -1 when the
// distribution has no such valley (monotone or flat). Confidence is
// 1 - valley/lowerPeak, so a sharp dip scores near 1 and a shallow dent
// near 0. Ties resolve to the lowest index, keeping the result
// deterministic.
func findValley(density []float64, buckets []Bucket, total int) (int, float64) {
	best := -1
	bestConf := 0.0
	floor := sideMassFloor * float64(total)

	leftMass := 0
	for i := 1; i < len(density)-1; i++ {
		leftMass += buckets[i-1].Count
		rightMass := total - leftMass - buckets[i].Count
		if float64(leftMass) < floor || float64(rightMass) < floor {
			continue
		}

		left := maxOf(density[:i])
		right := maxOf(density[i+1:])
		lower := math.Min(left, right)
		if lower <= density[i] || lower == 0 {
			continue
		}
		conf := 1 - density[i]/lower
		if conf > bestConf {
			best = i
			bestConf = conf
		}
	}

	return best, bestConf
}

func maxOf(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
