package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mosaicview/viewer/internal/config"
	"github.com/mosaicview/viewer/internal/display"
	"github.com/mosaicview/viewer/internal/ingest"
	"github.com/mosaicview/viewer/internal/media"
	"github.com/mosaicview/viewer/internal/session"
	"github.com/mosaicview/viewer/internal/status"
	"github.com/mosaicview/viewer/internal/viewer"
)

func main() {
	headless := flag.Bool("headless", false, "Run without a terminal display")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Listen.Port = *port
	}

	var surface media.Surface
	var input media.Input
	var mosaic *display.Mosaic
	if *headless {
		log.Println("Starting in headless mode")
		null := display.NewNull(cfg.Viewer.HeadlessWidth, cfg.Viewer.HeadlessHeight)
		surface, input = null, null
	} else {
		mosaic, err = display.NewMosaic()
		if err != nil {
			log.Fatalf("Failed to initialize screen: %v", err)
		}
		defer mosaic.Fini()
		surface, input = mosaic, mosaic
	}

	table := session.NewTable()
	bus := session.NewBus(cfg.Viewer.EventBuffer)

	var broadcaster *status.Broadcaster
	if cfg.Status.Enabled {
		broadcaster = status.NewBroadcaster(table, cfg.Status.BroadcastThrottle, cfg.Status.SnapshotInterval)
		server := status.NewServer(table, broadcaster)
		mux := http.NewServeMux()
		server.SetupRoutes(mux)
		go func() {
			if err := status.ListenAndServe(cfg.Status.Host, cfg.Status.Port, mux); err != nil {
				log.Printf("Status server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener, err := ingest.NewListener(cfg.Listen.Host, cfg.Listen.Port, bus)
	if err != nil {
		if mosaic != nil {
			mosaic.Fini()
		}
		log.Fatalf("Failed to bind %s:%d: %v", cfg.Listen.Host, cfg.Listen.Port, err)
	}
	go listener.Run(ctx)
	log.Printf("Listening on %s", listener.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	coord := viewer.New(cfg, table, bus, surface, input, media.NewRawDecoder, broadcaster)
	coord.Run(ctx)
}
