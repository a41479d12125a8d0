package addon

import (
	"github.com/samber/lo"
	"github.com/tidwall/match"

	"github.com/retutils/redirectfix/message"
)

// Scope restricts which flows the fixer touches. Empty fields match
// everything.
type Scope struct {
	Hosts   []string `json:"hosts"`
	Paths   []string `json:"paths"`
	Methods []string `json:"methods"`
}

// Match checks if the request falls inside the scope. A nil scope
// matches all flows; a flow without request details only matches an
// unrestricted scope.
func (s *Scope) Match(req *message.Request) bool {
	if s == nil {
		return true
	}
	if req == nil || req.URL == nil {
		return len(s.Hosts) == 0 && len(s.Paths) == 0 && len(s.Methods) == 0
	}
	if len(s.Methods) > 0 && !lo.Contains(s.Methods, req.Method) {
		return false
	}
	if len(s.Hosts) > 0 && !matchAny(s.Hosts, req.URL.Host) {
		return false
	}
	if len(s.Paths) > 0 && !matchAny(s.Paths, req.URL.Path) {
		return false
	}
	return true
}

func matchAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if match.Match(s, p) {
			return true
		}
	}
	return false
}
