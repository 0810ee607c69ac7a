package domain

import (
	"strings"
	"time"
)

const (
	DefaultStatusPort = 46390
	// StaleWindow is how recent last_updated must be for an error to be flagged.
	StaleWindow = 5 * time.Minute

	formattingMarker = '§'

	motdServerNotFound = "Server not found"
	motdServerOffline  = "This server is offline"
)

type Players struct {
	Now int
	Max int
}

type StatusSnapshot struct {
	Success     bool
	Online      bool
	MOTD        string
	Players     Players
	ServerName  string
	LastUpdated time.Time
	Error       string
}

type OutcomeKind string

const (
	OutcomeError          OutcomeKind = "error"
	OutcomeNotFound       OutcomeKind = "not_found"
	OutcomeOffline        OutcomeKind = "offline"
	OutcomeUnknown        OutcomeKind = "unknown"
	OutcomeOnlineEmpty    OutcomeKind = "online_empty"
	OutcomeOnlineFull     OutcomeKind = "online_full"
	OutcomeOnlinePlayers  OutcomeKind = "online_players"
	OutcomeTransportError OutcomeKind = "transport_error"
	OutcomeMalformed      OutcomeKind = "malformed"
)

// Outcome is the user-facing classification of one status query. Only the
// fields relevant to Kind are populated.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Stale   bool        `json:"stale,omitempty"`
	Name    string      `json:"name,omitempty"`
	Now     int         `json:"now,omitempty"`
	Max     int         `json:"max,omitempty"`
	Version string      `json:"version,omitempty"`
}

// Classify maps a snapshot to an Outcome. It is pure: identical inputs give
// identical outcomes.
func Classify(s StatusSnapshot, asOf time.Time) Outcome {
	if !s.Success {
		return Outcome{
			Kind:    OutcomeError,
			Message: s.Error,
			Stale:   !s.LastUpdated.IsZero() && s.LastUpdated.Add(StaleWindow).After(asOf),
		}
	}

	if s.Players.Max == 0 {
		switch {
		case strings.Contains(s.MOTD, motdServerNotFound):
			return Outcome{Kind: OutcomeNotFound}
		case strings.Contains(s.MOTD, motdServerOffline):
			return Outcome{Kind: OutcomeOffline}
		default:
			return Outcome{Kind: OutcomeUnknown, Message: StripFormatting(s.MOTD)}
		}
	}

	if !s.Online {
		return Outcome{Kind: OutcomeOffline}
	}

	name := StripFormatting(s.MOTD)
	switch s.Players.Now {
	case 0:
		return Outcome{Kind: OutcomeOnlineEmpty, Name: name}
	case s.Players.Max:
		return Outcome{Kind: OutcomeOnlineFull, Name: name, Max: s.Players.Max}
	default:
		return Outcome{
			Kind:    OutcomeOnlinePlayers,
			Name:    name,
			Now:     s.Players.Now,
			Max:     s.Players.Max,
			Version: s.ServerName,
		}
	}
}

// StripFormatting removes every '§' together with the rune that follows it,
// and a lone trailing '§'.
func StripFormatting(motd string) string {
	if !strings.ContainsRune(motd, formattingMarker) {
		return motd
	}

	var b strings.Builder
	b.Grow(len(motd))

	skip := false
	for _, r := range motd {
		switch {
		case skip:
			skip = false
		case r == formattingMarker:
			skip = true
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
