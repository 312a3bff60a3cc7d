package histogram

import (
	"reflect"
	"testing"
)

// bimodalGaps builds a gap set with a dense short-gap mass (minutes apart,
// within sessions) and a dense long-gap mass (hours apart, between
// sessions), separated by an empty stretch.
func bimodalGaps() []float64 {
	var gaps []float64
	for i := 0; i < 30; i++ {
		gaps = append(gaps, 3+float64(i%6)) // 3-8 min
	}
	for i := 0; i < 15; i++ {
		gaps = append(gaps, 120+float64(i*12)) // 2-5 h
	}
	return gaps
}

func TestSessionThresholdBimodal(t *testing.T) {
	analysis := SessionThreshold(bimodalGaps())

	if analysis.Method != MethodValley {
		t.Fatalf("method = %s, expected %s", analysis.Method, MethodValley)
	}
	// The valley must land between the two populations.
	if analysis.Threshold <= 8 || analysis.Threshold >= 120 {
		t.Errorf("threshold = %v, expected between the short-gap and long-gap masses", analysis.Threshold)
	}
	if analysis.Confidence <= 0.5 {
		t.Errorf("confidence = %v, expected a clear dip to score above 0.5", analysis.Confidence)
	}
	if len(analysis.Histogram) == 0 {
		t.Error("histogram missing from analysis")
	}
}

func TestSessionThresholdDeterministic(t *testing.T) {
	gaps := bimodalGaps()
	a := SessionThreshold(gaps)
	b := SessionThreshold(gaps)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same input produced different analyses:\n%+v\n%+v", a, b)
	}
}

func TestSessionThresholdTooFewGaps(t *testing.T) {
	analysis := SessionThreshold([]float64{5, 10, 90})

	if analysis.Threshold != DefaultThresholdMinutes {
		t.Errorf("threshold = %v, expected default %d", analysis.Threshold, DefaultThresholdMinutes)
	}
	if analysis.Confidence != 0 {
		t.Errorf("confidence = %v, expected 0", analysis.Confidence)
	}
	if analysis.Method != MethodDefault {
		t.Errorf("method = %s, expected %s", analysis.Method, MethodDefault)
	}
}

func TestSessionThresholdEmpty(t *testing.T) {
	analysis := SessionThreshold(nil)
	if analysis.Threshold != DefaultThresholdMinutes || analysis.Method != MethodDefault {
		t.Errorf("empty input should fall back to default, got %+v", analysis)
	}
}

func TestSessionThresholdFlatDistribution(t *testing.T) {
	// Uniform mass across the whole domain has no valley to find.
	var gaps []float64
	for i := 1; i <= 470; i += 5 {
		gaps = append(gaps, float64(i))
	}

	analysis := SessionThreshold(gaps)
	if analysis.Method == MethodValley && analysis.Confidence > 0.5 {
		t.Errorf("flat distribution scored confidence %v, expected low", analysis.Confidence)
	}
}

func TestSessionThresholdIgnoresOutOfDomainGaps(t *testing.T) {
	// Multi-day gaps carry no session signal; only 3 in-domain gaps remain,
	// which is below the sample floor.
	gaps := []float64{5, 10, 90}
	for i := 0; i < 30; i++ {
		gaps = append(gaps, 1440*float64(i+1))
	}

	analysis := SessionThreshold(gaps)
	if analysis.Method != MethodDefault {
		t.Errorf("method = %s, expected %s with only 3 in-domain gaps", analysis.Method, MethodDefault)
	}
}

func TestExplicit(t *testing.T) {
	analysis := Explicit(30)
	if analysis.Threshold != 30 || analysis.Method != MethodExplicit || analysis.Confidence != 1 {
		t.Errorf("unexpected explicit analysis: %+v", analysis)
	}
}
