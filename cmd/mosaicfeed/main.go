package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mosaicview/viewer/internal/media"
	"github.com/mosaicview/viewer/internal/wire"
)

// mosaicfeed streams synthetic grayscale frames to a viewer, for
// demos and load testing.
func main() {
	addr := flag.String("addr", "127.0.0.1:1218", "Viewer address")
	width := flag.Int("width", 320, "Frame width in pixels")
	height := flag.Int("height", 240, "Frame height in pixels")
	fps := flag.Int("fps", 30, "Frames per second")
	count := flag.Int("count", 0, "Number of frames to send (0 = until interrupted)")
	flag.Parse()

	if *width <= 0 || *height <= 0 || *width > 0xffff || *height > 0xffff {
		log.Fatalf("Invalid frame size %dx%d", *width, *height)
	}
	if *fps <= 0 {
		log.Fatalf("Invalid frame rate %d", *fps)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()
	log.Printf("Streaming %dx%d at %d fps to %s", *width, *height, *fps, *addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	pixels := make([]byte, *width**height)
	sent := 0
	for {
		select {
		case <-sigCh:
			log.Printf("Interrupted after %d frames", sent)
			return
		case <-ticker.C:
		}

		renderGradient(pixels, *width, *height, sent)
		payload, err := media.EncodeRaw(*width, *height, pixels)
		if err != nil {
			log.Fatalf("Failed to encode frame: %v", err)
		}
		if err := wire.WriteFrame(conn, payload); err != nil {
			log.Fatalf("Failed to send frame %d: %v", sent, err)
		}

		sent++
		if *count > 0 && sent >= *count {
			log.Printf("Sent %d frames", sent)
			return
		}
	}
}

// renderGradient fills pixels with a diagonal gradient that drifts one
// step per frame, so motion is visible in the viewer.
func renderGradient(pixels []byte, width, height, frame int) {
	for y := 0; y < height; y++ {
		row := pixels[y*width : (y+1)*width]
		for x := range row {
			row[x] = byte(x + y + frame*4)
		}
	}
}
