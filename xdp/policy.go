package xdp

import (
	"log/slog"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/internal"
)

// Policy chooses the [Action] for a packet from the error returned while
// decoding or checking it. The zero value aborts on every error.
type Policy struct {
	// OnParseError is returned for errors from header constructors, e.g. a truncated header.
	OnParseError Action
	// OnChecksumError is returned for [pktview.ErrBadCRC].
	OnChecksumError Action
	// OnBoundsError is returned for [pktview.ErrOutOfBounds].
	OnBoundsError Action
	// Logger receives the verdict for each error at trace level. May be nil.
	Logger *slog.Logger
}

// DefaultPolicy passes packets it cannot parse up the stack, drops packets
// with bad checksums and aborts on bounds errors, which point at a filter bug.
func DefaultPolicy() Policy {
	return Policy{
		OnParseError:    ActionPass,
		OnChecksumError: ActionDrop,
		OnBoundsError:   ActionAborted,
	}
}

// Verdict returns [ActionPass] for a nil error and the policy's action otherwise.
// Errors that are not [pktview.Error] kinds map to [ActionAborted].
func (p Policy) Verdict(err error) Action {
	if err == nil {
		return ActionPass
	}
	kind := kindOf(err)
	var act Action
	switch {
	case kind == pktview.ErrOutOfBounds:
		act = p.OnBoundsError
	case kind == pktview.ErrBadCRC:
		act = p.OnChecksumError
	case kind.IsParseError():
		act = p.OnParseError
	default:
		act = ActionAborted
	}
	if internal.LogEnabled(p.Logger, internal.LevelTrace) {
		internal.LogAttrs(p.Logger, internal.LevelTrace, "xdp:verdict",
			slog.String("action", act.String()),
			slog.Uint64("kind", uint64(kind)),
		)
	}
	return act
}
