// Command traffic-light shows one of three lights (red, green, yellow) and
// advances to the next on each button press.
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
	red := flag.Int("red", gpio.DefaultPinRed, "BCM pin number for the red light")
	green := flag.Int("green", gpio.DefaultPinGreen, "BCM pin number for the green light")
	yellow := flag.Int("yellow", gpio.DefaultPinYellow, "BCM pin number for the yellow light")
	button := flag.Int("button", gpio.DefaultPinButton, "BCM pin number for the button")
	debounce := flag.Duration("debounce", logic.DefaultDebounce, "Minimum gap between accepted presses")
	bounce := flag.Duration("bounce", gpio.DefaultBounce, "GPIO line debounce (0 to disable)")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")

	flag.Parse()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load(*configPath, logic.DeviceTrafficLight)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chip":
			cfg.Chip = *chip
		case "red":
			cfg.Traffic.Red = *red
		case "green":
			cfg.Traffic.Green = *green
		case "yellow":
			cfg.Traffic.Yellow = *yellow
		case "button":
			cfg.Traffic.Button = *button
		case "debounce":
			cfg.Debounce = *debounce
		case "bounce":
			cfg.Bounce = *bounce
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP = *httpAddr
		}
	})
	if err := config.Validate(cfg, logic.DeviceTrafficLight); err != nil {
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
		publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, logic.DeviceTrafficLight)
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

type deps struct {
	driver gpio.Driver
	pub    mqtt.Publisher        // nil disables MQTT
	conn   mqtt.ConnectionStatus // nil when unknown
	sleep  render.Sleeper
}

// run sets up the three lights and the button, shows the current color until
// a signal arrives and switches every light off. The caller closes the
// driver.
func run(cfg *config.Config, d deps, sig <-chan os.Signal) error {
	t := cfg.Traffic
	for _, pin := range []int{t.Red, t.Green, t.Yellow} {
		if err := d.driver.SetupOutput(pin); err != nil {
			return fmt.Errorf("setup light on pin %d: %w", pin, err)
		}
	}
	light := render.NewTrafficLight(d.driver, render.TrafficPins{Red: t.Red, Green: t.Green, Yellow: t.Yellow})
	if err := light.AllOff(); err != nil {
		return fmt.Errorf("lights off: %w", err)
	}

	tracker := status.NewTracker(logic.DeviceTrafficLight, time.Now(), status.Config{
		Pins: map[string]int{
			"red":    t.Red,
			"green":  t.Green,
			"yellow": t.Yellow,
			"button": t.Button,
		},
		DebounceMs: cfg.Debounce.Milliseconds(),
		BounceMs:   cfg.Bounce.Milliseconds(),
		Broker:     cfg.MQTT.Broker,
		HTTPAddr:   cfg.HTTP,
	})
	cycler := logic.NewCycler(logic.DeviceTrafficLight, logic.ColorCount, cfg.Debounce)
	a := app.New(cycler, tracker, d.pub, d.conn)

	if err := d.driver.SetupButton(t.Button, cfg.Bounce, a.OnPress); err != nil {
		return fmt.Errorf("setup button: %w", err)
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

	log.Printf("started: red=%d green=%d yellow=%d button=%d; press the button to change lights, Ctrl+C to exit",
		t.Red, t.Green, t.Yellow, t.Button)

	loopErr := runLoop(ctx, light, cycler, cfg.Yield, d.sleep)

	if err := light.AllOff(); err != nil {
		log.Printf("lights off: %v", err)
	} else {
		log.Printf("all lights off")
	}
	cancel()
	a.Shutdown(reason())
	return loopErr
}

// runLoop shows the current color and yields until ctx is cancelled.
func runLoop(ctx context.Context, light *render.TrafficLight, cycler *logic.Cycler, yield time.Duration, sleep render.Sleeper) error {
	for {
		color := logic.Color(cycler.Current())
		if err := light.Show(color); err != nil {
			return fmt.Errorf("show %s: %w", color, err)
		}
		if err := sleep(ctx, yield); err != nil {
			return nil
		}
	}
}
