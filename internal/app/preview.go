// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/image/draw"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_tracker/internal/latest"
)

const (
	previewScale = 4
	writeWait    = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Preview mirrors the display to a browser. It serves the last frame as
// GET /frame.png and pushes every changed frame to /ws clients as a binary
// PNG message.
type Preview struct {
	frames *latest.Slot[*image1bit.VerticalLSB]

	mu      sync.RWMutex
	lastPix []byte
	lastPNG []byte
	clients map[*latest.Slot[[]byte]]struct{}
}

func NewPreview() *Preview {
	return &Preview{
		frames:  latest.New[*image1bit.VerticalLSB](),
		clients: make(map[*latest.Slot[[]byte]]struct{}),
	}
}

// Flush implements FrameSink. Unchanged frames are skipped; encoding
// happens in Run.
func (p *Preview) Flush(img *image1bit.VerticalLSB) error {
	p.mu.Lock()
	same := bytes.Equal(p.lastPix, img.Pix)
	if !same {
		p.lastPix = append(p.lastPix[:0], img.Pix...)
	}
	p.mu.Unlock()
	if same {
		return nil
	}

	cp := image1bit.NewVerticalLSB(img.Bounds())
	copy(cp.Pix, img.Pix)
	p.frames.Publish(cp)
	return nil
}

// Run encodes published frames and fans them out until ctx ends.
func (p *Preview) Run(ctx context.Context) error {
	for {
		img, err := p.frames.WaitTake(ctx)
		if err != nil {
			return nil
		}
		data, err := encodeFrame(img, previewScale)
		if err != nil {
			log.Printf("preview: encode error: %v", err)
			continue
		}

		p.mu.Lock()
		p.lastPNG = data
		for c := range p.clients {
			c.Publish(data)
		}
		p.mu.Unlock()
	}
}

// Router returns the HTTP routes of the preview.
func (p *Preview) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/frame.png", p.handleFrame).Methods("GET")
	r.HandleFunc("/ws", p.handleWS)
	return r
}

// Serve runs the preview HTTP server on addr until ctx ends.
func (p *Preview) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: p.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("preview: shutdown error: %v", err)
		}
	}()

	log.Printf("preview: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func (p *Preview) handleFrame(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	data := p.lastPNG
	p.mu.RUnlock()

	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		log.Printf("preview: frame write error: %v", err)
	}
}

func (p *Preview) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("preview: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	out := latest.New[[]byte]()
	p.mu.Lock()
	if p.lastPNG != nil {
		out.Publish(p.lastPNG)
	}
	p.clients[out] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.clients, out)
		p.mu.Unlock()
	}()

	// The reader only watches for the client going away.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("preview: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		data, err := out.WaitTake(ctx)
		if err != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Printf("preview: websocket write error: %v", err)
			return
		}
	}
}

// encodeFrame scales img up by scale with hard pixel edges and encodes it
// as a PNG.
func encodeFrame(img *image1bit.VerticalLSB, scale int) ([]byte, error) {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
