package events

import "time"

// RewriteStart is emitted before rewriting a query document.
type RewriteStart struct {
	Query string
	Mode  string
}

// RewriteFinish is emitted after rewriting a query document.
type RewriteFinish struct {
	Query    string
	Mode     string
	Err      error
	Duration time.Duration
}
