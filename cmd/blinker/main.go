// Command blinker blinks an LED in one of four modes, cycling modes on each
// button press. With -cycles it blinks slowly a fixed number of times and
// exits without using the button.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pi-lights/internal/app"
	"github.com/sweeney/pi-lights/internal/config"
	"github.com/sweeney/pi-lights/internal/gpio"
	"github.com/sweeney/pi-lights/internal/logic"
	"github.com/sweeney/pi-lights/internal/mqtt"
	"github.com/sweeney/pi-lights/internal/render"
	"github.com/sweeney/pi-lights/internal/status"
	"github.com/sweeney/pi-lights/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	chip := flag.String("chip", gpio.DefaultChip, "GPIO chip device")
	led := flag.Int("led", gpio.DefaultPinLED, "BCM pin number for the LED")
	button := flag.Int("button", gpio.DefaultPinButton, "BCM pin number for the button")
	debounce := flag.Duration("debounce", logic.DefaultDebounce, "Minimum gap between accepted presses")
	bounce := flag.Duration("bounce", gpio.DefaultBounce, "GPIO line debounce (0 to disable)")
	cycles := flag.Int("cycles", 0, "Blink slowly this many times and exit (0 = run until interrupted)")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")

	flag.Parse()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load(*configPath, logic.DeviceBlinker)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chip":
			cfg.Chip = *chip
		case "led":
			cfg.Blinker.LED = *led
		case "button":
			cfg.Blinker.Button = *button
		case "debounce":
			cfg.Debounce = *debounce
		case "bounce":
			cfg.Bounce = *bounce
		case "cycles":
			cfg.Cycles = *cycles
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP = *httpAddr
		}
	})
	if err := config.Validate(cfg, logic.DeviceBlinker); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := runMain(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func runMain(cfg *config.Config) error {
	driver, err := gpio.NewRealDriver(cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Printf("gpio cleanup: %v", err)
		}
	}()

	d := deps{driver: driver, sleep: render.Sleep}
	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, logic.DeviceBlinker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		d.pub = publisher
		d.conn = publisher
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return run(cfg, d, sigCh)
}

// deps are the collaborators run needs; tests substitute fakes.
type deps struct {
	driver gpio.Driver
	pub    mqtt.Publisher        // nil disables MQTT
	conn   mqtt.ConnectionStatus // nil when unknown
	sleep  render.Sleeper
}

// run sets up the LED and button, renders until a signal arrives (or the
// fixed cycle count is reached) and turns the LED off. The caller closes the
// driver.
func run(cfg *config.Config, d deps, sig <-chan os.Signal) error {
	pin := cfg.Blinker.LED
	if err := d.driver.SetupOutput(pin); err != nil {
		return fmt.Errorf("setup led: %w", err)
	}

	pins := map[string]int{"led": pin}
	if cfg.Cycles == 0 {
		pins["button"] = cfg.Blinker.Button
	}
	tracker := status.NewTracker(logic.DeviceBlinker, time.Now(), status.Config{
		Pins:       pins,
		DebounceMs: cfg.Debounce.Milliseconds(),
		BounceMs:   cfg.Bounce.Milliseconds(),
		Broker:     cfg.MQTT.Broker,
		HTTPAddr:   cfg.HTTP,
	})
	cycler := logic.NewCycler(logic.DeviceBlinker, logic.ModeCount, cfg.Debounce)
	a := app.New(cycler, tracker, d.pub, d.conn)

	if cfg.Cycles == 0 {
		if err := d.driver.SetupButton(cfg.Blinker.Button, cfg.Bounce, a.OnPress); err != nil {
			return fmt.Errorf("setup button: %w", err)
		}
	}

	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	ctx, reason, cancel := app.WithSignals(context.Background(), sig)
	defer cancel()

	a.Start(ctx)
	a.Startup()

	if cfg.Cycles > 0 {
		log.Printf("started: led=%d cycles=%d", pin, cfg.Cycles)
	} else {
		log.Printf("started: led=%d button=%d debounce=%v; press the button to cycle modes (0-3), Ctrl+C to exit",
			pin, cfg.Blinker.Button, cfg.Debounce)
	}

	blinker := render.NewBlinker(d.driver, pin, d.sleep)
	loopErr := runLoop(ctx, blinker, cycler, cfg.Yield, cfg.Cycles, d.sleep)

	log.Printf("exiting...")
	if err := blinker.Off(); err != nil {
		log.Printf("led off: %v", err)
	}
	cancel()
	a.Shutdown(reason())
	return loopErr
}

// runLoop renders the current mode, one full pattern per iteration, until
// ctx is cancelled. cycles > 0 stops after that many iterations.
func runLoop(ctx context.Context, blinker *render.Blinker, cycler *logic.Cycler, yield time.Duration, cycles int, sleep render.Sleeper) error {
	for i := 0; cycles == 0 || i < cycles; i++ {
		mode := logic.Mode(cycler.Current())
		if err := blinker.Render(ctx, mode); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("render %s: %w", mode, err)
		}
		if err := sleep(ctx, yield); err != nil {
			return nil
		}
	}
	return nil
}
