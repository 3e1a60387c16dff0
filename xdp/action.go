// Package xdp maps header view results onto packet filter dispositions.
// The header views never decide what happens to a packet; a filter built on
// them uses this package to turn errors into an [Action].
package xdp

import (
	"errors"
	"strconv"

	"github.com/soypat/pktview"
)

// Action is a packet disposition numbered as the kernel's enum xdp_action.
type Action uint32

const (
	ActionAborted  Action = iota // aborted
	ActionDrop                   // drop
	ActionPass                   // pass
	ActionTX                     // tx
	ActionRedirect               // redirect
)

func (a Action) String() string {
	switch a {
	case ActionAborted:
		return "aborted"
	case ActionDrop:
		return "drop"
	case ActionPass:
		return "pass"
	case ActionTX:
		return "tx"
	case ActionRedirect:
		return "redirect"
	}
	return "Action(" + strconv.FormatUint(uint64(a), 10) + ")"
}

// Bounds returns [pktview.ErrOutOfBounds] if n octets starting at off do not fit in pkt.
func Bounds(pkt []byte, off, n int) error {
	if off < 0 || n < 0 || off > len(pkt)-n {
		return pktview.ErrOutOfBounds
	}
	return nil
}

// OrDrop returns ([ActionDrop], true) if err is not nil.
//
//	if act, stop := xdp.OrDrop(err); stop {
//		return act
//	}
func OrDrop(err error) (Action, bool) { return orAction(err, ActionDrop) }

// OrPass returns ([ActionPass], true) if err is not nil. See [OrDrop].
func OrPass(err error) (Action, bool) { return orAction(err, ActionPass) }

// OrAbort returns ([ActionAborted], true) if err is not nil. See [OrDrop].
func OrAbort(err error) (Action, bool) { return orAction(err, ActionAborted) }

func orAction(err error, act Action) (Action, bool) {
	if err != nil {
		return act, true
	}
	return ActionPass, false
}

// kindOf unwraps err into a pktview error kind. It returns zero for foreign errors.
func kindOf(err error) pktview.Error {
	if kind, ok := err.(pktview.Error); ok {
		return kind
	}
	var kind pktview.Error
	if errors.As(err, &kind) {
		return kind
	}
	return 0
}
