// Copyright © 2026 The Tilelisp authors

package engine

import (
	"image"
	"image/png"
	"os"
)

// Window displays frames produced by a Renderer.
type Window interface {
	// ShouldClose returns true once the window has been closed by the user.
	ShouldClose() bool
	// Present displays frame.
	Present(frame *image.RGBA) error
	// Close releases the window.
	Close() error
}

// HeadlessWindow is a Window without a display.  It counts presented frames
// and closes itself after MaxFrames frames when MaxFrames is positive.
type HeadlessWindow struct {
	MaxFrames int
	// Snapshot, when set, names a PNG file that receives the last presented
	// frame when the window is closed.
	Snapshot string

	frames int
	last   *image.RGBA
}

var _ Window = (*HeadlessWindow)(nil)

func (w *HeadlessWindow) ShouldClose() bool {
	return w.MaxFrames > 0 && w.frames >= w.MaxFrames
}

func (w *HeadlessWindow) Present(frame *image.RGBA) error {
	w.frames++
	if w.last == nil {
		w.last = image.NewRGBA(frame.Bounds())
	}
	copy(w.last.Pix, frame.Pix)
	return nil
}

// Frames returns the number of frames presented.
func (w *HeadlessWindow) Frames() int {
	return w.frames
}

// Last returns the last presented frame, or nil.
func (w *HeadlessWindow) Last() *image.RGBA {
	return w.last
}

func (w *HeadlessWindow) Close() error {
	if w.Snapshot == "" || w.last == nil {
		return nil
	}
	f, err := os.Create(w.Snapshot)
	if err != nil {
		return err
	}
	err = png.Encode(f, w.last)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		log.Infof("wrote snapshot: %s", w.Snapshot)
	}
	return err
}
