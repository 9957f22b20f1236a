package merge

import (
	"strings"
	"time"

	"github.com/agentstation/instantbox/pkg/errors"
)

// Strategy resolves an item present both locally and remotely.
type Strategy[T any] func(local, remote T) T

// Timestamped items expose their last modification time.
type Timestamped interface {
	Modified() time.Time
}

// RemoteWins keeps the remote item. It is the default strategy.
func RemoteWins[T any](_, remote T) T {
	return remote
}

// LatestWins keeps the most recently modified item; ties go to remote.
func LatestWins[T Timestamped](local, remote T) T {
	if local.Modified().After(remote.Modified()) {
		return local
	}
	return remote
}

// StrategyType names a strategy for configuration.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the strategy type title cased, e.g. "Remote Wins".
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeRemoteWins always takes the remote copy.
	StrategyTypeRemoteWins StrategyType = "remote-wins"
	// StrategyTypeLatestWins takes whichever copy changed last.
	StrategyTypeLatestWins StrategyType = "latest-wins"
)

// ParseStrategyType parses a strategy name. The empty string is remote-wins.
func ParseStrategyType(s string) (StrategyType, error) {
	switch StrategyType(strings.ToLower(s)) {
	case "", StrategyTypeRemoteWins:
		return StrategyTypeRemoteWins, nil
	case StrategyTypeLatestWins:
		return StrategyTypeLatestWins, nil
	default:
		return "", errors.NewValidationError("merge_strategy", s, "must be remote-wins or latest-wins")
	}
}

// For returns the strategy function of the given type.
func For[T Timestamped](t StrategyType) Strategy[T] {
	if t == StrategyTypeLatestWins {
		return LatestWins[T]
	}
	return RemoteWins[T]
}
