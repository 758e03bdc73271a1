package session

import (
	"context"
	"fmt"
	"time"

	"github.com/CK6170/cgscale-go/loadcell"
)

type SamplePhase string

const (
	SamplePhaseLive      SamplePhase = "live"
	SamplePhaseIgnoring  SamplePhase = "ignoring"
	SamplePhaseAveraging SamplePhase = "averaging"
	SamplePhaseFinished  SamplePhase = "finished"
)

type SampleUpdate struct {
	Phase        SamplePhase
	IgnoreDone   int
	IgnoreTarget int
	AvgDone      int
	AvgTarget    int
	// Current net readings: [front, rear]
	Current [2]float64
	// Final averages when Phase == finished: [front, rear]
	Final [2]float64
}

// SampleNet performs the ignore+average flow of a calibration step: a
// warm-up run of discarded polls, then avgTarget polls averaged per
// channel. With the calibration factor pinned to 1 the averages are net
// converter counts. UI-agnostic and cancellable.
func SampleNet(
	ctx context.Context,
	front, rear loadcell.ADC,
	ignoreTarget int,
	avgTarget int,
	onUpdate func(SampleUpdate),
) ([2]float64, error) {
	var final [2]float64
	if front == nil || rear == nil {
		return final, fmt.Errorf("channels not connected")
	}
	if ignoreTarget < 0 {
		ignoreTarget = 0
	}
	if avgTarget <= 0 {
		return final, fmt.Errorf("avgTarget must be > 0")
	}

	readOnce := func() ([2]float64, error) {
		if err := front.Update(); err != nil {
			return [2]float64{}, fmt.Errorf("front channel: %w", err)
		}
		if err := rear.Update(); err != nil {
			return [2]float64{}, fmt.Errorf("rear channel: %w", err)
		}
		return [2]float64{front.Data(), rear.Data()}, nil
	}

	emit := func(u SampleUpdate) {
		if onUpdate != nil {
			onUpdate(u)
		}
	}

	// initial live tick
	cur, err := readOnce()
	if err != nil {
		return final, err
	}
	emit(SampleUpdate{
		Phase:        SamplePhaseLive,
		IgnoreTarget: ignoreTarget,
		AvgTarget:    avgTarget,
		Current:      cur,
	})

	for ignoreDone := 0; ignoreDone < ignoreTarget; {
		select {
		case <-ctx.Done():
			return final, ctx.Err()
		default:
		}
		if cur, err = readOnce(); err != nil {
			return final, err
		}
		ignoreDone++
		emit(SampleUpdate{
			Phase:        SamplePhaseIgnoring,
			IgnoreDone:   ignoreDone,
			IgnoreTarget: ignoreTarget,
			AvgTarget:    avgTarget,
			Current:      cur,
		})
		time.Sleep(5 * time.Millisecond)
	}

	var sums [2]float64
	for avgDone := 0; avgDone < avgTarget; {
		select {
		case <-ctx.Done():
			return final, ctx.Err()
		default:
		}
		if cur, err = readOnce(); err != nil {
			return final, err
		}
		avgDone++
		sums[0] += cur[0]
		sums[1] += cur[1]
		emit(SampleUpdate{
			Phase:        SamplePhaseAveraging,
			IgnoreDone:   ignoreTarget,
			IgnoreTarget: ignoreTarget,
			AvgDone:      avgDone,
			AvgTarget:    avgTarget,
			Current:      cur,
		})
		time.Sleep(5 * time.Millisecond)
	}

	final[0] = sums[0] / float64(avgTarget)
	final[1] = sums[1] / float64(avgTarget)
	emit(SampleUpdate{
		Phase:        SamplePhaseFinished,
		IgnoreDone:   ignoreTarget,
		IgnoreTarget: ignoreTarget,
		AvgDone:      avgTarget,
		AvgTarget:    avgTarget,
		Final:        final,
	})
	return final, nil
}
