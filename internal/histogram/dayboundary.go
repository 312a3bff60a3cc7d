package histogram

const (
	// DefaultDayBoundaryHour is the coding-day start used when the hour
	// distribution is too sparse or too flat to infer one.
	DefaultDayBoundaryHour = 4

	// MinHourSamples is the minimum number of commits required before
	// day-boundary inference is attempted.
	MinHourSamples = 20

	// quietWindow is the width in hours of the low-activity window the
	// search looks for. Five hours approximates a sleep block.
	quietWindow = 5

	// minBoundaryConfidence is the floor below which an inferred boundary
	// is considered indistinguishable from noise.
	minBoundaryConfidence = 0.2
)

// DayBoundaryAnalysis is the result of day-boundary inference.
type DayBoundaryAnalysis struct {
	// Boundary is the hour (0-23) at which the user's coding day starts:
	// the center of their least active stretch of the 24-hour cycle.
	Boundary int `json:"boundary"`
	// Confidence in [0,1] reflects how deep the quiet window is relative
	// to overall activity.
	Confidence float64 `json:"confidence"`
	// Method is MethodValley or MethodDefault.
	Method string `json:"method"`
	// Histogram holds commit counts per local hour.
	Histogram [24]int `json:"histogram"`
}

// DayBoundary infers the user's natural coding-day start from the local
// hour of every commit in their history. Hours form a circular domain
// (23 is adjacent to 0): the algorithm slides a quiet window around the
// clock and picks the center of the least active one. Sparse histories and
// near-uniform distributions fall back to DefaultDayBoundaryHour with low
// confidence; this function never fails.
func DayBoundary(hours []int) DayBoundaryAnalysis {
	var hist [24]int
	total := 0
	for _, h := range hours {
		if h < 0 || h > 23 {
			continue
		}
		hist[h]++
		total++
	}

	if total < MinHourSamples {
		return DayBoundaryAnalysis{
			Boundary:  DefaultDayBoundaryHour,
			Method:    MethodDefault,
			Histogram: hist,
		}
	}

	// Circular smoothing over ±1 hour.
	var smoothed [24]float64
	for h := 0; h < 24; h++ {
		smoothed[h] = (float64(hist[(h+23)%24]) + float64(hist[h]) + float64(hist[(h+1)%24])) / 3
	}

	half := quietWindow / 2
	bestHour := 0
	bestSum := -1.0
	for h := 0; h < 24; h++ {
		sum := 0.0
		for d := -half; d <= half; d++ {
			sum += smoothed[(h+d+24)%24]
		}
		if bestSum < 0 || sum < bestSum {
			bestHour = h
			bestSum = sum
		}
	}

	// Depth of the quiet window against mean activity.
	mean := float64(total) / 24
	windowMean := bestSum / quietWindow
	confidence := 1 - windowMean/mean
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	if confidence < minBoundaryConfidence {
		return DayBoundaryAnalysis{
			Boundary:   DefaultDayBoundaryHour,
			Confidence: confidence,
			Method:     MethodDefault,
			Histogram:  hist,
		}
	}

	return DayBoundaryAnalysis{
		Boundary:   bestHour,
		Confidence: confidence,
		Method:     MethodValley,
		Histogram:  hist,
	}
}
