package logic

import "time"

// Step is one segment of a blink pattern: drive the LED and hold.
type Step struct {
	On   bool
	Hold time.Duration
}

// Fade parameters.
const (
	FadeFrequency = 100 // Hz
	FadeStep      = 4   // duty cycle percentage points per step
	FadeHold      = 20 * time.Millisecond
)

// BlinkSteps returns the on/off sequence for one pass of mode.
// ModeFade is PWM driven and returns nil; use FadeRamp.
func BlinkSteps(mode Mode) []Step {
	switch mode {
	case ModeSlow:
		return []Step{
			{On: true, Hold: time.Second},
			{On: false, Hold: time.Second},
		}
	case ModeFast:
		return []Step{
			{On: true, Hold: 200 * time.Millisecond},
			{On: false, Hold: 200 * time.Millisecond},
		}
	case ModeDouble:
		blink := 120 * time.Millisecond
		return []Step{
			{On: true, Hold: blink},
			{On: false, Hold: blink},
			{On: true, Hold: blink},
			{On: false, Hold: blink},
			{On: false, Hold: 600 * time.Millisecond},
		}
	}
	return nil
}

// FadeRamp returns the duty cycle sequence for one fade pass: 0 up to 100
// then back down to 0 in increments of step. 100 is always included, so the
// last step before it may be smaller than step.
func FadeRamp(step int) []int {
	if step <= 0 {
		step = FadeStep
	}
	var up []int
	for dc := 0; dc < 100; dc += step {
		up = append(up, dc)
	}
	up = append(up, 100)

	ramp := make([]int, 0, 2*len(up))
	ramp = append(ramp, up...)
	for i := len(up) - 1; i >= 0; i-- {
		ramp = append(ramp, up[i])
	}
	return ramp
}
