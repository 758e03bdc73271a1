package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CK6170/cgscale-go/lcd"
	"github.com/CK6170/cgscale-go/models"
	"github.com/CK6170/cgscale-go/render"
	"github.com/CK6170/cgscale-go/scale"
	"github.com/CK6170/cgscale-go/session"
	"github.com/CK6170/cgscale-go/ui"
)

func main() {
	var (
		configPath = flag.String("config", "config.json", "path to config json")
		sim        = flag.Bool("sim", false, "run against simulated cells instead of the bridge")
		output     = flag.String("output", "", "override the OUTPUT target (console|display)")
	)
	flag.Parse()

	if err := run(*configPath, *sim, *output); err != nil {
		fmt.Fprintf(os.Stderr, "cgscale: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, sim bool, output string) error {
	cfg, err := session.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}
	if output != "" {
		if output != models.OutputConsole && output != models.OutputDisplay {
			return fmt.Errorf("-output must be %q or %q", models.OutputConsole, models.OutputDisplay)
		}
		cfg.OUTPUT = output
	}

	var sess *session.Session
	if sim {
		sess = session.ConnectSim(cfg)
		ui.Warningf("Simulated cells, no hardware attached.\n")
	} else {
		changed, err := session.EnsureSerialPort(configPath, cfg, true)
		if err != nil {
			return err
		}
		if changed {
			ui.Greenf("Detected bridge on %s\n", cfg.SERIAL.PORT)
		}
		sess, err = session.Connect(cfg)
		if err != nil {
			return err
		}
	}
	defer sess.Close()

	var sink render.Sink
	if cfg.OUTPUT == models.OutputDisplay {
		sink, err = render.NewDisplaySink(lcd.NewTerminal(os.Stdout))
		if err != nil {
			return err
		}
	} else {
		sink = render.NewConsoleSink(os.Stdout)
	}

	mon, err := sess.NewMonitor(
		func(r scale.Reading, stable bool) error {
			return sink.Render(render.Frame{Reading: r, Stable: stable})
		},
		func(ev scale.SyncEvent) {
			ui.Debugf(cfg.DEBUG, "%s channel %s\n", ev.Channel, ev.State)
		},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := ui.StartKeyEvents()
	ui.DrainKeys()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case k, ok := <-keys:
				if !ok {
					return
				}
				switch k {
				case 't', 'T':
					mon.RequestTare()
				case 'q', 'Q', 27:
					cancel()
					return
				}
			}
		}
	}()

	ui.ClearScreen()
	ui.Greenf("Taring both channels, keep the supports clear. Keys: t tare, q quit.\n")
	if err := mon.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
