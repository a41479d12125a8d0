// Package notify carries rewrite notifications to the host's operator
// surfaces: a one-line alert feed and per-entry history annotations.
package notify

import (
	log "github.com/sirupsen/logrus"

	"github.com/retutils/redirectfix/message"
)

// Sink receives one-line operator alerts about modified responses.
// Delivery is fire-and-forget; a sink must never block the pipeline.
type Sink interface {
	Alert(msg string)
}

// LogSink delivers alerts to the process log, the stand-in for a
// dashboard event feed.
type LogSink struct{}

func (LogSink) Alert(msg string) {
	log.Warn(msg)
}

// Annotation is the highlight and comment applied to the history entry of
// a rewritten flow.
type Annotation struct {
	Highlight string `json:"highlight"`
	Comment   string `json:"comment"`
}

// Annotator records annotations against intercepted flows.
// Implementations must tolerate concurrent calls.
type Annotator interface {
	Annotate(f *message.Flow, a Annotation) error
}
