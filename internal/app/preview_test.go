package app

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gotest.tools/assert"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_tracker/internal/display"
	"github.com/relabs-tech/gps_tracker/internal/gps"
)

func TestPreviewSkipsUnchangedFrames(t *testing.T) {
	p := NewPreview()
	img := display.Frame(gps.DefaultFix(), 0)

	assert.NilError(t, p.Flush(img))
	first, ok := p.frames.TryTake()
	assert.Assert(t, ok)

	assert.NilError(t, p.Flush(img))
	assert.Assert(t, !p.frames.Pending())

	// The published frame is a copy.
	img.Pix[0] ^= 0xff
	assert.Assert(t, first.Pix[0] != img.Pix[0])
	assert.NilError(t, p.Flush(img))
	assert.Assert(t, p.frames.Pending())
}

func TestEncodeFrameScales(t *testing.T) {
	img := image1bit.NewVerticalLSB(display.Bounds)
	img.SetBit(1, 0, image1bit.On)

	data, err := encodeFrame(img, 4)
	assert.NilError(t, err)
	dec, err := png.Decode(bytes.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, dec.Bounds().Dx(), 512)
	assert.Equal(t, dec.Bounds().Dy(), 128)

	lit := func(x, y int) bool {
		r, _, _, _ := dec.At(x, y).RGBA()
		return r > 0
	}
	assert.Assert(t, !lit(3, 0))
	assert.Assert(t, lit(4, 0))
	assert.Assert(t, lit(7, 3))
	assert.Assert(t, !lit(8, 0))
	assert.Assert(t, !lit(4, 4))
}

func litPixels(t *testing.T, data []byte) int {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	assert.NilError(t, err)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0 {
				n++
			}
		}
	}
	return n
}

func TestEncodeFrameKeepsEveryLitPixel(t *testing.T) {
	img := display.Frame(gps.DefaultFix(), 0)
	on := 0
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if img.BitAt(x, y) {
				on++
			}
		}
	}
	assert.Assert(t, on > 0)

	data, err := encodeFrame(img, 2)
	assert.NilError(t, err)
	assert.Equal(t, litPixels(t, data), on*4)
}

func waitPNG(t *testing.T, url string) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		assert.NilError(t, err)
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			assert.Equal(t, resp.Header.Get("Content-Type"), "image/png")
			return buf.Bytes()
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no frame served")
	return nil
}

func TestPreviewServesFrames(t *testing.T) {
	p := NewPreview()
	srv := httptest.NewServer(p.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/frame.png")
	assert.NilError(t, err)
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusServiceUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	assert.NilError(t, p.Flush(display.Frame(gps.DefaultFix(), 0)))
	first := waitPNG(t, srv.URL+"/frame.png")
	assert.Assert(t, litPixels(t, first) > 0, "served frame is blank")

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	assert.NilError(t, err)
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	// A new client gets the current frame straight away.
	kind, data, err := ws.ReadMessage()
	assert.NilError(t, err)
	assert.Equal(t, kind, websocket.BinaryMessage)
	assert.Assert(t, bytes.Equal(data, first))

	// Then every change.
	assert.NilError(t, p.Flush(display.Frame(gps.DefaultFix(), 1)))
	_, data, err = ws.ReadMessage()
	assert.NilError(t, err)
	assert.Assert(t, !bytes.Equal(data, first))
}

// brokenWriter is a client that went away mid response.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestPreviewLogsFrameWriteError(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	p := NewPreview()
	p.lastPNG = []byte("png")
	w := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
	p.handleFrame(w, httptest.NewRequest("GET", "/frame.png", nil))

	assert.Assert(t, strings.Contains(logs.String(), "preview: frame write error: connection reset"))
}
