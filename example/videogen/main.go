// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Registers a video-generator behavior that pushes procedurally generated
// frames into a <video> element of the host window. The native window handle
// is passed by the embedding application as the first argument.
package main

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	sciter "github.com/YindSoft/sciter-go"
)

const (
	frameWidth  = 640
	frameHeight = 480
	frameRate   = 30
)

const page = `
<html>
<style>
  video { behavior: video-generator; width: 640px; height: 480px; }
</style>
<body>
  <video></video>
</body>
</html>`

// videoGenerator streams frames to the bound destination from a background
// goroutine until the engine reports the site dead or the behavior detaches.
type videoGenerator struct {
	sciter.BaseHandler

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func (v *videoGenerator) Subscription() (sciter.EventGroups, bool) {
	return sciter.HandleBehaviorEvent, true
}

func (v *videoGenerator) OnEvent(root, source, target sciter.HELEMENT, code sciter.BehaviorEvent, phase sciter.Phase, reason sciter.EventReason) bool {
	if code != sciter.VideoBindRequest || phase != sciter.Bubbling {
		return false
	}
	bind, ok := reason.(sciter.VideoBindEvent)
	if !ok {
		return false
	}
	dst, ok := sciter.VideoDestinationFrom(bind)
	if !ok {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go v.stream(dst, v.stop, v.done)
	return true
}

func (v *videoGenerator) Detached(root sciter.HELEMENT) {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.stop, v.done = nil, nil
	v.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (v *videoGenerator) stream(dst *sciter.VideoDestination, stop, done chan struct{}) {
	defer close(done)

	frame := make([]byte, frameWidth*frameHeight*4)
	err := dst.Pump(frameWidth, frameHeight, sciter.ColorSpaceRGB32, time.Second/frameRate, func(n int) []byte {
		fillFrame(frame, n)
		return frame
	}, stop)
	if err != nil {
		log.Printf("video: %v", err)
	}
}

// fillFrame draws a moving gradient, BGRA.
func fillFrame(frame []byte, n int) {
	shift := n % 256
	i := 0
	for y := 0; y < frameHeight; y++ {
		for x := 0; x < frameWidth; x++ {
			frame[i+0] = byte((x + shift) & 0xFF)
			frame[i+1] = byte((y + shift) & 0xFF)
			frame[i+2] = byte(shift)
			frame[i+3] = 0xFF
			i += 4
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: videogen <native-window-handle>")
	}
	hwnd, err := strconv.ParseUint(os.Args[1], 0, 64)
	if err != nil {
		log.Fatalf("bad window handle %q: %v", os.Args[1], err)
	}

	host, err := sciter.Attach(uintptr(hwnd), &sciter.Options{Debug: true})
	if err != nil {
		log.Fatalf("attach: %v", err)
	}
	host.RegisterBehavior("video-generator", func() sciter.EventHandler {
		return &videoGenerator{}
	})
	if err := host.LoadHtml(page, ""); err != nil {
		log.Fatal(err)
	}
	select {}
}
