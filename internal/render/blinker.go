package render

import (
	"context"
	"fmt"

	"github.com/sweeney/pi-lights/internal/gpio"
	"github.com/sweeney/pi-lights/internal/logic"
)

// Blinker renders blink modes on a single LED.
type Blinker struct {
	driver gpio.Driver
	pin    int
	sleep  Sleeper
}

// NewBlinker creates a Blinker for an LED on pin. The pin must already be
// set up as an output. A nil sleep uses Sleep.
func NewBlinker(driver gpio.Driver, pin int, sleep Sleeper) *Blinker {
	if sleep == nil {
		sleep = Sleep
	}
	return &Blinker{driver: driver, pin: pin, sleep: sleep}
}

// Render plays one full pass of mode and returns. It returns ctx.Err() if
// cancelled mid pattern.
func (b *Blinker) Render(ctx context.Context, mode logic.Mode) error {
	switch mode {
	case logic.ModeSlow, logic.ModeFast, logic.ModeDouble:
		return b.steps(ctx, logic.BlinkSteps(mode))
	case logic.ModeFade:
		return b.fade(ctx)
	}
	return fmt.Errorf("unknown mode %d", int(mode))
}

// Off drives the LED low.
func (b *Blinker) Off() error {
	return b.driver.Write(b.pin, false)
}

func (b *Blinker) steps(ctx context.Context, steps []logic.Step) error {
	for _, s := range steps {
		if err := b.driver.Write(b.pin, s.On); err != nil {
			return err
		}
		if err := b.sleep(ctx, s.Hold); err != nil {
			return err
		}
	}
	return nil
}

// fade ramps the PWM duty cycle up and back down. The PWM is stopped on
// every return path.
func (b *Blinker) fade(ctx context.Context) (err error) {
	pwm, err := b.driver.StartPWM(b.pin, logic.FadeFrequency)
	if err != nil {
		return fmt.Errorf("start pwm: %w", err)
	}
	defer func() {
		if stopErr := pwm.Stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("stop pwm: %w", stopErr)
		}
	}()

	for _, dc := range logic.FadeRamp(logic.FadeStep) {
		if err := pwm.SetDutyCycle(dc); err != nil {
			return fmt.Errorf("set duty cycle %d: %w", dc, err)
		}
		if err := b.sleep(ctx, logic.FadeHold); err != nil {
			return err
		}
	}
	return nil
}
