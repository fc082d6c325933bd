// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected staking call.
type Kind uint8

const (
	Unauthorized Kind = iota + 1
	InvalidArgument
	NotActive
	AlreadyActive
	CapacityExceeded
	BelowMinimum
	InvalidResultingBalance
	BelowValidatorFloor
	InsufficientBalance
	FutureEpoch
	ZeroCap
	BadIndex
	TransferFailed
	Reentrant
)

var kindNames = map[Kind]string{
	Unauthorized:            "unauthorized",
	InvalidArgument:         "invalid argument",
	NotActive:               "not active",
	AlreadyActive:           "already active",
	CapacityExceeded:        "capacity exceeded",
	BelowMinimum:            "below minimum",
	InvalidResultingBalance: "invalid resulting balance",
	BelowValidatorFloor:     "below validator floor",
	InsufficientBalance:     "insufficient balance",
	FutureEpoch:             "future epoch",
	ZeroCap:                 "zero cap",
	BadIndex:                "bad index",
	TransferFailed:          "transfer failed",
	Reentrant:               "reentrant call",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels for errors.Is matching by kind.
var (
	ErrUnauthorized            = &ErrRevert{kind: Unauthorized}
	ErrInvalidArgument         = &ErrRevert{kind: InvalidArgument}
	ErrNotActive               = &ErrRevert{kind: NotActive}
	ErrAlreadyActive           = &ErrRevert{kind: AlreadyActive}
	ErrCapacityExceeded        = &ErrRevert{kind: CapacityExceeded}
	ErrBelowMinimum            = &ErrRevert{kind: BelowMinimum}
	ErrInvalidResultingBalance = &ErrRevert{kind: InvalidResultingBalance}
	ErrBelowValidatorFloor     = &ErrRevert{kind: BelowValidatorFloor}
	ErrInsufficientBalance     = &ErrRevert{kind: InsufficientBalance}
	ErrFutureEpoch             = &ErrRevert{kind: FutureEpoch}
	ErrZeroCap                 = &ErrRevert{kind: ZeroCap}
	ErrBadIndex                = &ErrRevert{kind: BadIndex}
	ErrTransferFailed          = &ErrRevert{kind: TransferFailed}
	ErrReentrant               = &ErrRevert{kind: Reentrant}
)

// ErrRevert is a domain rejection. The call it came from had no effect.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.message
}

// Is matches any revert of the same kind.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert found in err's chain.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}
