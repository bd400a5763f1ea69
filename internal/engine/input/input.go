// Package input turns SDL2 events into the few events the viewer reacts to.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Width  int
	Height int
}

// Input polls SDL for viewer events.
type Input struct {
	events []Event
	poll   func() sdl.Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 4),
		poll:   sdl.PollEvent,
	}
}

// Update drains the SDL queue. It returns true when the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := i.poll(); event != nil; event = i.poll() {
		e, ok := Translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Translate maps an SDL event to a viewer event. Window close and the
// Escape key both quit.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
			return Event{Type: EventQuit}, true
		}
	}
	return Event{}, false
}
