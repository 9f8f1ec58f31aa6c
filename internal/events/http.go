// Package events defines the event types published through the eventbus
// by the HTTP handler and the rewrite entry points.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when a request reaches the rewrite handler.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the response has been written.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}
