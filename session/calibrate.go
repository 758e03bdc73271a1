package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/CK6170/cgscale-go/loadcell"
	"github.com/CK6170/cgscale-go/models"
)

type CalStepKind string

const (
	CalStepZero   CalStepKind = "zero"
	CalStepWeight CalStepKind = "weight"
)

// CalStep is one station of the guided factor fit. Channel is 0 for
// front, 1 for rear, -1 for the shared zero step.
type CalStep struct {
	Kind    CalStepKind
	Channel int
	Grams   float64
	Label   string
	Prompt  string
}

// BuildCalibrationPlan lays out the guided flow: one shared tare, then
// every reference weight on each support in turn.
func BuildCalibrationPlan(weights []float64) ([]CalStep, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("no reference weights given")
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("reference weight must be positive, got %g", w)
		}
	}
	steps := make([]CalStep, 0, 1+2*len(weights))
	steps = append(steps, CalStep{
		Kind:    CalStepZero,
		Channel: -1,
		Label:   "[ZERO]",
		Prompt:  "Clear both supports, then press Enter to start the tare.",
	})
	for ch := 0; ch < 2; ch++ {
		for i, w := range weights {
			steps = append(steps, CalStep{
				Kind:    CalStepWeight,
				Channel: ch,
				Grams:   w,
				Label:   fmt.Sprintf("[%s%02d]", []string{"F", "R"}[ch], i+1),
				Prompt: fmt.Sprintf("Place %g g directly over the %s support peg, then press Enter.",
					w, models.Side(ch)),
			})
		}
	}
	return steps, nil
}

// TareForCalibration pins both factors to 1 and runs a fresh tare, so
// every Data() read afterwards is net converter counts.
func TareForCalibration(ctx context.Context, front, rear loadcell.ADC, window time.Duration) error {
	front.SetCalFactor(1)
	rear.SetCalFactor(1)
	frontReady, rearReady := false, false
	for !frontReady || !rearReady {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !frontReady {
			ok, err := front.StartStabilization(window)
			if err != nil {
				return fmt.Errorf("front channel: %w", err)
			}
			frontReady = ok
		}
		if !rearReady {
			ok, err := rear.StartStabilization(window)
			if err != nil {
				return fmt.Errorf("rear channel: %w", err)
			}
			rearReady = ok
		}
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

// calPoint is one averaged observation: net counts at a known load.
type calPoint struct {
	grams float64
	net   float64
}

// Calibration accumulates per-channel observations across weight steps.
type Calibration struct {
	points [2][]calPoint
}

func (c *Calibration) AddPoint(channel int, grams, net float64) error {
	if channel < 0 || channel > 1 {
		return fmt.Errorf("invalid channel %d", channel)
	}
	c.points[channel] = append(c.points[channel], calPoint{grams: grams, net: net})
	return nil
}

// ChannelFit is the fitted scale of one cell.
type ChannelFit struct {
	Factor float64 // converter counts per gram
	R2     float64
	Points int
}

type CalResult struct {
	Front ChannelFit
	Rear  ChannelFit
}

// Fit runs a least-squares regression of net counts against known grams
// through the origin for each channel. The tare already removed the
// intercept, so a free intercept would only absorb drift.
func (c *Calibration) Fit() (*CalResult, error) {
	var fits [2]ChannelFit
	for ch := 0; ch < 2; ch++ {
		pts := c.points[ch]
		if len(pts) == 0 {
			return nil, fmt.Errorf("%s channel: no calibration points", models.Side(ch))
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = p.grams
			ys[i] = p.net
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, true)
		if !(beta > 0) || math.IsInf(beta, 0) {
			return nil, fmt.Errorf("%s channel: non-positive slope %g counts/g; check wiring and load placement",
				models.Side(ch), beta)
		}
		r2 := 1.0
		if len(pts) > 1 {
			r2 = stat.RSquared(xs, ys, nil, alpha, beta)
		}
		fits[ch] = ChannelFit{Factor: beta, R2: r2, Points: len(pts)}
	}
	return &CalResult{Front: fits[0], Rear: fits[1]}, nil
}

// Apply writes the fitted factors into the config, ready for
// SaveCalibratedConfig.
func (r *CalResult) Apply(c *models.CONFIG) {
	c.FRONT.FACTOR = r.Front.Factor
	c.REAR.FACTOR = r.Rear.Factor
}
