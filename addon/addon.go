package addon

import "github.com/retutils/redirectfix/message"

// Addon hooks into the host interception layer's message lifecycle.
type Addon interface {
	Request(f *message.Flow)
	Response(f *message.Flow)
}

// BaseAddon provides no-op hooks for addons that only care about part of
// the lifecycle.
type BaseAddon struct{}

func (BaseAddon) Request(f *message.Flow)  {}
func (BaseAddon) Response(f *message.Flow) {}
