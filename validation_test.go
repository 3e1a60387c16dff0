package pktview

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorFirstError(t *testing.T) {
	var v Validator
	if v.HasError() || v.Err() != nil {
		t.Fatal("zero value has error")
	}
	v.AddBitPosErr(16, 16, ErrInvalidLengthField)
	v.AddError(ErrBadCRC) // Dropped: only first error is kept.
	err := v.ErrPop()
	if !errors.Is(err, ErrInvalidLengthField) {
		t.Fatalf("want ErrInvalidLengthField, got %v", err)
	}
	if errors.Is(err, ErrBadCRC) {
		t.Error("second error accumulated without ValidateAllowMultiErrors")
	}
	var bpe *BitPosErr
	if !errors.As(err, &bpe) || bpe.BitStart != 16 || bpe.BitLen != 16 {
		t.Fatalf("want bit position error at 16..32, got %v", err)
	}
	if v.HasError() {
		t.Error("ErrPop did not reset")
	}
	// Popped error must survive reuse of the validator.
	v.AddBitPosErr(0, 4, ErrInvalidField)
	if bpe.BitStart != 16 || bpe.Err != ErrInvalidLengthField {
		t.Errorf("popped error aliased by later error: %v", bpe)
	}
}

func TestValidatorMultiErrors(t *testing.T) {
	v := NewValidator(ValidateAllowMultiErrors)
	v.AddError(ErrZeroSource)
	v.AddBitPosErr(0, 16, ErrZeroDestination)
	err := v.Err()
	if !errors.Is(err, ErrZeroSource) || !errors.Is(err, ErrZeroDestination) {
		t.Fatalf("want both errors joined, got %v", err)
	}
	v.ResetErr()
	if v.Err() != nil {
		t.Error("ResetErr did not clear errors")
	}
}

func TestErrorKinds(t *testing.T) {
	parse := []Error{
		ErrWrongSize, ErrWrongSizeForType, ErrInvalidSize, ErrInvalidSizeForIHL,
		ErrInvalidSizeForOffset, ErrInvalidIHL, ErrInvalidDataOffset, ErrInvalidVersion, ErrInvalidLength,
	}
	seen := map[string]bool{}
	for _, err := range parse {
		if !err.IsParseError() {
			t.Errorf("%v not a parse error", err)
		}
		if seen[err.Error()] {
			t.Errorf("duplicate error string %q", err.Error())
		}
		seen[err.Error()] = true
	}
	for _, err := range []Error{ErrValueTooLarge, ErrBadCRC, ErrOutOfBounds, ErrShortBuffer} {
		if err.IsParseError() {
			t.Errorf("%v reported as parse error", err)
		}
	}
}

func TestIPProto(t *testing.T) {
	if IPProtoTCP.String() != "TCP" || !IPProtoTCP.IsDefined() {
		t.Errorf("bad TCP entry %q", IPProtoTCP.String())
	}
	// Unknown numbers keep their raw value.
	unknown := IPProto(200)
	if unknown.IsDefined() {
		t.Error("200 should not be defined")
	}
	if unknown.String() != "IPProto(200)" {
		t.Errorf("bad unknown string %q", unknown.String())
	}
	if uint8(unknown) != 200 {
		t.Error("raw value lost")
	}
	for i := 0; i < 256; i++ {
		p := IPProto(i)
		if named := !strings.HasPrefix(p.String(), "IPProto("); named != p.IsDefined() {
			t.Errorf("%d: IsDefined=%v disagrees with String %q", i, p.IsDefined(), p.String())
		}
	}
	if IPProto3PC.String() != "3PC" || IPProtoExperimental1.String() != "Experimental1" {
		t.Error("bad names at run edges")
	}
}
