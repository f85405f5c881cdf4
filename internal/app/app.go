// Package app wires the button state, status tracker and event publisher
// shared by the blinker and traffic light commands.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sweeney/pi-lights/internal/logic"
	"github.com/sweeney/pi-lights/internal/mqtt"
	"github.com/sweeney/pi-lights/internal/status"
)

// changeBuffer is how many transitions may wait for the publisher before
// new ones are dropped.
const changeBuffer = 16

// App owns the state shared between the button callback and the run loop.
type App struct {
	cycler  *logic.Cycler
	tracker *status.Tracker
	pub     mqtt.Publisher        // nil when MQTT is disabled
	conn    mqtt.ConnectionStatus // nil when unknown
	now     func() time.Time

	changes chan logic.Transition
	wg      sync.WaitGroup
}

// New creates an App. pub and conn may be nil.
func New(cycler *logic.Cycler, tracker *status.Tracker, pub mqtt.Publisher, conn mqtt.ConnectionStatus) *App {
	return &App{
		cycler:  cycler,
		tracker: tracker,
		pub:     pub,
		conn:    conn,
		now:     time.Now,
		changes: make(chan logic.Transition, changeBuffer),
	}
}

// OnPress is the button edge handler. It advances the state if the press is
// outside the debounce window and never blocks.
func (a *App) OnPress(t time.Time) {
	tr, ok := a.cycler.Press(t)
	counts := a.cycler.Counts()
	if !ok {
		a.tracker.SetCounts(counts)
		return
	}

	switch tr.Device {
	case logic.DeviceBlinker:
		log.Printf("mode changed: %d (%s)", tr.State, tr.Label)
	default:
		log.Printf("%s changed to: %s", tr.Device, tr.Label)
	}
	a.tracker.Update(tr, counts)

	if a.pub == nil {
		return
	}
	select {
	case a.changes <- tr:
	default:
		log.Printf("publish queue full, dropping %s change to %s", tr.Device, tr.Label)
	}
}

// Start forwards accepted transitions to the publisher until ctx is done.
// Call Shutdown to wait for the forwarder to finish.
func (a *App) Start(ctx context.Context) {
	if a.pub == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-ctx.Done():
				a.drain()
				return
			case tr := <-a.changes:
				a.publish(tr)
			}
		}
	}()
}

func (a *App) drain() {
	for {
		select {
		case tr := <-a.changes:
			a.publish(tr)
		default:
			return
		}
	}
}

func (a *App) publish(tr logic.Transition) {
	if err := a.pub.Publish(tr); err != nil {
		log.Printf("publish error: %v", err)
		// Don't crash on publish failure
	}
	a.refreshConnection()
}

func (a *App) refreshConnection() {
	if a.conn != nil {
		a.tracker.SetMQTTConnected(a.conn.IsConnected())
	}
}

// Startup publishes the STARTUP lifecycle event with a status snapshot.
func (a *App) Startup() {
	a.publishSystem("STARTUP", "")
}

// Shutdown waits for pending transitions to be published and then publishes
// the SHUTDOWN lifecycle event with reason, e.g. "SIGINT".
func (a *App) Shutdown(reason string) {
	a.wg.Wait()
	a.publishSystem("SHUTDOWN", reason)
}

func (a *App) publishSystem(event, reason string) {
	if a.pub == nil {
		return
	}
	a.refreshConnection()
	snap := a.tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  a.now(),
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := a.pub.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}
