package session

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/CK6170/cgscale-go/loadcell"
)

func TestBuildCalibrationPlan(t *testing.T) {
	steps, err := BuildCalibrationPlan([]float64{200, 500})
	if err != nil {
		t.Fatalf("BuildCalibrationPlan: %v", err)
	}
	if len(steps) != 5 {
		t.Fatalf("got %d steps, want 5 (zero + 2 weights x 2 channels)", len(steps))
	}
	if steps[0].Kind != CalStepZero || steps[0].Channel != -1 {
		t.Errorf("first step = %+v, want the shared zero step", steps[0])
	}
	if steps[1].Channel != 0 || steps[1].Grams != 200 || steps[1].Label != "[F01]" {
		t.Errorf("second step = %+v, want front 200g", steps[1])
	}
	if steps[3].Channel != 1 || steps[3].Label != "[R01]" {
		t.Errorf("fourth step = %+v, want rear 200g", steps[3])
	}

	if _, err := BuildCalibrationPlan(nil); err == nil {
		t.Error("empty weight list accepted")
	}
	if _, err := BuildCalibrationPlan([]float64{-5}); err == nil {
		t.Error("negative weight accepted")
	}
}

func TestFitRecoversSimulatedFactors(t *testing.T) {
	front := loadcell.NewSimADC()
	rear := loadcell.NewSimADC()
	front.CountsPerGram = 431.25
	rear.CountsPerGram = 454.8
	if err := front.Begin(); err != nil {
		t.Fatalf("front Begin: %v", err)
	}
	if err := rear.Begin(); err != nil {
		t.Fatalf("rear Begin: %v", err)
	}

	ctx := context.Background()
	if err := TareForCalibration(ctx, front, rear, 5*time.Millisecond); err != nil {
		t.Fatalf("TareForCalibration: %v", err)
	}

	var cal Calibration
	for _, grams := range []float64{200, 500} {
		front.SetLoad(grams)
		rear.SetLoad(grams)
		net, err := SampleNet(ctx, front, rear, 2, 3, nil)
		if err != nil {
			t.Fatalf("SampleNet at %gg: %v", grams, err)
		}
		if err := cal.AddPoint(0, grams, net[0]); err != nil {
			t.Fatalf("AddPoint front: %v", err)
		}
		if err := cal.AddPoint(1, grams, net[1]); err != nil {
			t.Fatalf("AddPoint rear: %v", err)
		}
	}

	res, err := cal.Fit()
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.Front.Factor-431.25) > 1e-6 {
		t.Errorf("front factor = %g, want 431.25", res.Front.Factor)
	}
	if math.Abs(res.Rear.Factor-454.8) > 1e-6 {
		t.Errorf("rear factor = %g, want 454.8", res.Rear.Factor)
	}
	if res.Front.R2 < 0.9999 || res.Rear.R2 < 0.9999 {
		t.Errorf("fit quality = %g/%g, want ~1 on noiseless data", res.Front.R2, res.Rear.R2)
	}
}

func TestFitRejectsDegenerateData(t *testing.T) {
	var empty Calibration
	if _, err := empty.Fit(); err == nil {
		t.Error("fit with no points accepted")
	}

	var inverted Calibration
	// counts falling as load rises means a reversed cell
	_ = inverted.AddPoint(0, 200, -86000)
	_ = inverted.AddPoint(0, 500, -215000)
	_ = inverted.AddPoint(1, 200, 91000)
	_ = inverted.AddPoint(1, 500, 227000)
	if _, err := inverted.Fit(); err == nil {
		t.Error("negative slope accepted")
	}
}

func TestSampleNetPhases(t *testing.T) {
	front := loadcell.NewSimADC()
	rear := loadcell.NewSimADC()
	if err := front.Begin(); err != nil {
		t.Fatalf("front Begin: %v", err)
	}
	if err := rear.Begin(); err != nil {
		t.Fatalf("rear Begin: %v", err)
	}

	var phases []SamplePhase
	_, err := SampleNet(context.Background(), front, rear, 2, 2, func(u SampleUpdate) {
		phases = append(phases, u.Phase)
	})
	if err != nil {
		t.Fatalf("SampleNet: %v", err)
	}
	want := []SamplePhase{
		SamplePhaseLive,
		SamplePhaseIgnoring, SamplePhaseIgnoring,
		SamplePhaseAveraging, SamplePhaseAveraging,
		SamplePhaseFinished,
	}
	if len(phases) != len(want) {
		t.Fatalf("got %d updates, want %d: %v", len(phases), len(want), phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("update %d phase = %s, want %s", i, phases[i], want[i])
		}
	}
}

func TestSampleNetCancellable(t *testing.T) {
	front := loadcell.NewSimADC()
	rear := loadcell.NewSimADC()
	_ = front.Begin()
	_ = rear.Begin()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SampleNet(ctx, front, rear, 5, 5, nil); err != context.Canceled {
		t.Fatalf("SampleNet error = %v, want context.Canceled", err)
	}
}
