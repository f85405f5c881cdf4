package gpio

import (
	"fmt"
	"sync"
	"time"
)

// setter drives a single line.
type setter func(on bool) error

type pwmMsg struct {
	duty int
	stop chan struct{}
}

// softPWM toggles a line from a goroutine. Duty changes take effect at the
// end of the current period.
type softPWM struct {
	set    setter
	period time.Duration
	c      chan pwmMsg

	mu      sync.Mutex // serializes senders on c
	stopped bool

	errMu sync.Mutex
	err   error // first write error seen by the handler
}

func newSoftPWM(set setter, freqHz int) (*softPWM, error) {
	if freqHz <= 0 {
		return nil, fmt.Errorf("invalid pwm frequency %d", freqHz)
	}
	p := &softPWM{
		set:    set,
		period: time.Second / time.Duration(freqHz),
		c:      make(chan pwmMsg, 1),
	}
	go p.handler()
	return p, nil
}

// SetDutyCycle sets the duty cycle percentage.
func (p *softPWM) SetDutyCycle(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%d: invalid duty cycle percentage", percent)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return fmt.Errorf("pwm stopped")
	}
	if err := p.firstErr(); err != nil {
		return err
	}
	p.c <- pwmMsg{duty: percent}
	return nil
}

// Stop halts the handler and waits for it to leave the line low.
// Calling Stop more than once is a no-op.
func (p *softPWM) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil
	}
	p.stopped = true
	done := make(chan struct{})
	p.c <- pwmMsg{stop: done}
	<-done
	return p.firstErr()
}

func (p *softPWM) fail(err error) {
	p.errMu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.errMu.Unlock()
}

func (p *softPWM) firstErr() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// handler runs the PWM, checking for new parameters after each period.
func (p *softPWM) handler() {
	var on, off time.Duration
	off = p.period
	current := false
	if err := p.set(false); err != nil {
		p.fail(err)
	}
	for {
		if on != 0 {
			if !current {
				if err := p.set(true); err != nil {
					p.fail(err)
				}
				current = true
			}
			time.Sleep(on)
		}
		if off != 0 {
			if current {
				if err := p.set(false); err != nil {
					p.fail(err)
				}
				current = false
			}
			time.Sleep(off)
		}
		select {
		case m := <-p.c:
			if m.stop != nil {
				if current {
					if err := p.set(false); err != nil {
						p.fail(err)
					}
				}
				close(m.stop)
				return
			}
			on = p.period * time.Duration(m.duty) / 100
			off = p.period - on
		default:
		}
	}
}
