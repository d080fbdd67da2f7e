package dispatch

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/trailhead"
)

// EventError names the event listeners are notified of.
const EventError = "error"

// An Event describes an unhandled error.
type Event struct {
	Message string
	Err     error
	Request *http.Request
}

// A Listener is notified of every unhandled error.
// Listeners are called synchronously and must not block.
type Listener func(ev Event)

// AddListener adds l to the listeners notified of unhandled errors.
func (d *Dispatcher) AddListener(l Listener) {
	d.lmu.Lock()
	defer d.lmu.Unlock()

	d.listeners = append(d.listeners, l)
}

// On adds l as a listener for event.
// "error" is the only event a Dispatcher emits.
func (d *Dispatcher) On(event string, l Listener) error {
	if event != EventError {
		return fmt.Errorf("%w: %q", trailhead.ErrUnknownEvent, event)
	}

	d.AddListener(l)
	return nil
}

func (d *Dispatcher) emit(ev Event) {
	d.lmu.RLock()
	ls := make([]Listener, len(d.listeners))
	copy(ls, d.listeners)
	d.lmu.RUnlock()

	for _, l := range ls {
		l(ev)
	}
}
