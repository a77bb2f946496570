// Headless arena runner: loads an arena, streams geometry in the background and serves
// frames over websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena3d/internal/engine"
	"arena3d/internal/geometry"
	"arena3d/internal/player"
	"arena3d/internal/sim"
	"arena3d/internal/stream"
	"arena3d/internal/world"

	"github.com/charmbracelet/log"
)

func main() {
	arenaPath := flag.String("arena", "", "arena JSON file (default: built-in arena)")
	addr := flag.String("addr", ":8080", "websocket listen address, empty to disable")
	tickRate := flag.Int("tick", 60, "frames per second")
	latency := flag.Duration("latency", 300*time.Millisecond, "simulated asset load latency")
	bot := flag.Bool("bot", false, "drive the player with a scripted bot")
	duration := flag.Duration("duration", 0, "stop after this long (0 = run until interrupted)")
	debug := flag.Bool("debug", false, "debug logging")
	savePath := flag.String("save", "", "write the arena to this JSON file and exit")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "arena",
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)

	arena := world.Default()
	if *arenaPath != "" {
		var err error
		arena, err = world.Load(*arenaPath)
		if err != nil {
			logger.Fatal("load arena", "err", err)
		}
	}

	if *savePath != "" {
		if err := arena.Save(*savePath); err != nil {
			logger.Fatal("save arena", "err", err)
		}
		logger.Info("arena saved", "path", *savePath, "targets", len(arena.Targets))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	driver, err := sim.NewDriver(arena.Config, arena.Targets, sim.WithLogger(logger.WithPrefix("sim")))
	if err != nil {
		logger.Fatal("create driver", "err", err)
	}
	watch(driver.Events(), logger)

	catalog := geometry.NewCatalog()
	catalog.Latency = *latency
	arena.PopulateCatalog(catalog)
	driver.StreamAssets(ctx, catalog, arena.Assets)

	hub := stream.NewHub(stream.HubConfig{Logger: logger.WithPrefix("stream")})
	detach := hub.Attach(driver.Events())
	defer detach()
	if *addr != "" {
		srv := &http.Server{Addr: *addr, Handler: hub}
		go func() {
			logger.Info("serving websocket", "addr", *addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("websocket server", "err", err)
			}
		}()
		defer func() {
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("arena started", "name", arena.Name, "targets", len(arena.Targets), "tick", *tickRate)
	run(ctx, driver, hub, *tickRate, *bot)

	st := driver.State()
	logger.Info("arena stopped", "ticks", st.Tick, "hits", st.Targets.Hits(), "ammo", st.Pool.Ammo())
}

func run(ctx context.Context, driver *sim.Driver, hub *stream.Hub, tickRate int, useBot bool) {
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	var in player.Input
	var b *scriptedBot
	if useBot {
		b = newScriptedBot()
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			stream.DrainCommands(driver, hub.Commands(), &in)
			if b != nil {
				in = b.next(driver, now)
			}
			driver.Tick(now.Sub(last), in)
			last = now
		}
	}
}

func watch(events *engine.Events, logger *log.Logger) {
	events.TargetHit.AddListener(func(e engine.TargetHitEvent) {
		logger.Info("target hit", "name", e.Name, "hits", e.Hits)
	})
	events.Respawned.AddListener(func(p engine.PlayerTransform) {
		logger.Info("player respawned", "eye", p.Eye)
	})
	events.AmmoChanged.AddListener(func(n int) {
		logger.Debug("ammo", "left", n)
	})
}
