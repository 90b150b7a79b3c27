package schedz

import (
	"math"
	"testing"
)

func TestRunningStatMeanAndStddev(t *testing.T) {
	var s runningStat
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.add(x)
	}

	count, mean, stddev := s.snapshot()
	if count != 8 {
		t.Fatalf("expected count 8, got %d", count)
	}
	if math.Abs(mean-5.0) > 1e-9 {
		t.Errorf("expected mean 5.0, got %v", mean)
	}
	if math.Abs(stddev-2.138089935) > 1e-6 {
		t.Errorf("expected stddev ~2.1381, got %v", stddev)
	}
}

func TestRunningStatSingleSampleHasZeroStddev(t *testing.T) {
	var s runningStat
	s.add(42)
	count, mean, stddev := s.snapshot()
	if count != 1 || mean != 42 || stddev != 0 {
		t.Errorf("expected (1, 42, 0), got (%d, %v, %v)", count, mean, stddev)
	}
}

func TestObservabilityNilSafe(t *testing.T) {
	var o *Observability
	o.RecordResponse(5)
	o.RecordTurnaround(5)
	if count, _, _ := o.ResponseStats(); count != 0 {
		t.Errorf("expected zero count from a nil Observability, got %d", count)
	}
	o.Close()
}

func TestObservabilityRecordsStats(t *testing.T) {
	o := NewObservability()
	defer o.Close()

	o.RecordResponse(1)
	o.RecordResponse(3)
	if count, mean, _ := o.ResponseStats(); count != 2 || mean != 2 {
		t.Errorf("expected (2, 2), got (%d, %v)", count, mean)
	}
}
