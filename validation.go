package pktview

import (
	"errors"
	"strconv"
)

// ValidateFlags modify what a [Validator] checks and how it accumulates errors.
type ValidateFlags uint64

const (
	validateReserved ValidateFlags = 1 << iota
	// ValidateEvilBit reports IPv4 packets with the RFC 3514 evil bit set.
	ValidateEvilBit
	// ValidateAllowMultiErrors keeps accumulating after the first error.
	ValidateAllowMultiErrors
)

func (vf ValidateFlags) has(v ValidateFlags) bool {
	return vf&v == v
}

// Validator accumulates errors found while checking a header's field values
// after construction. Construction only guarantees the buffer holds the
// header; Validator checks the values make sense, e.g. a total length field
// that does not lie about the packet size.
//
// The zero value is ready to use and reports only the first error found.
type Validator struct {
	accum       []error
	accumBitpos []BitPosErr
	flags       ValidateFlags
}

// NewValidator returns a Validator with the given flags set.
func NewValidator(flags ValidateFlags) *Validator {
	if flags.has(validateReserved) {
		panic("reserved validate flag set")
	}
	return &Validator{flags: flags}
}

// Flags returns the flags the Validator was created with.
func (v *Validator) Flags() ValidateFlags {
	return v.flags
}

// ResetErr discards accumulated errors, keeping allocated memory for reuse.
func (v *Validator) ResetErr() {
	v.accum = v.accum[:0]
	v.accumBitpos = v.accumBitpos[:0]
}

// HasError reports whether any error has been accumulated.
func (v *Validator) HasError() bool {
	return len(v.accum) != 0
}

// Err returns the accumulated errors joined, or nil.
func (v *Validator) Err() error {
	if len(v.accum) == 1 {
		return v.accum[0]
	} else if len(v.accum) == 0 {
		return nil
	}
	return errors.Join(v.accum...)
}

// ErrPop returns [Validator.Err] and resets the Validator.
func (v *Validator) ErrPop() error {
	if len(v.accum) == 0 {
		return nil
	}
	// BitPosErr values live in accumBitpos which is reused after reset.
	for i, err := range v.accum {
		if bpe, ok := err.(*BitPosErr); ok {
			cp := *bpe
			v.accum[i] = &cp
		}
	}
	err := v.Err()
	v.ResetErr()
	return err
}

// AddError adds err to the Validator.
func (v *Validator) AddError(err error) {
	if err == nil {
		panic("error argument to AddError cannot be nil")
	} else if len(v.accum) != 0 && !v.flags.has(ValidateAllowMultiErrors) {
		return
	}
	v.accum = append(v.accum, err)
}

// AddBitPosErr adds err located at a bit range of the header.
func (v *Validator) AddBitPosErr(bitStart, bitLen int, err error) {
	if err == nil {
		panic("err argument to bitPosErr cannot be nil")
	} else if bitLen <= 0 {
		panic("bitLen must be positive")
	} else if len(v.accum) != 0 && !v.flags.has(ValidateAllowMultiErrors) {
		return
	}
	v.accumBitpos = append(v.accumBitpos, BitPosErr{BitStart: bitStart, BitLen: bitLen, Err: err})
	v.accum = append(v.accum, &v.accumBitpos[len(v.accumBitpos)-1])
}

// BitPosErr locates an error at a bit range of a header.
type BitPosErr struct {
	BitStart int
	BitLen   int
	Err      error
}

func (bpe *BitPosErr) Error() string {
	b := make([]byte, 0, 48)
	b = append(b, bpe.Err.Error()...)
	b = append(b, " at bits "...)
	b = strconv.AppendInt(b, int64(bpe.BitStart), 10)
	b = append(b, ".."...)
	b = strconv.AppendInt(b, int64(bpe.BitStart+bpe.BitLen), 10)
	return string(b)
}

func (bpe *BitPosErr) Unwrap() error { return bpe.Err }
