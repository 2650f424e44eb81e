package cff

import "testing"

func TestParseTopDictExtractsOffsets(t *testing.T) {
	// CharStrings offset 1234 (two-byte int), operator 17;
	// charset offset 99 (one-byte-range int), operator 15.
	dict := []byte{}
	dict = append(dict, 28, byte(1234>>8), byte(1234&0xff)) // int16 1234
	dict = append(dict, opCharStrings)
	dict = append(dict, byte(99+139)) // 99 encoded via the 32-246 range (99+139=238)
	dict = append(dict, opCharset)

	td, err := ParseTopDict(dict)
	if err != nil {
		t.Fatal(err)
	}
	if td.CharStringsOffset != 1234 {
		t.Fatalf("CharStringsOffset = %d, want 1234", td.CharStringsOffset)
	}
	if td.CharsetOffset != 99 {
		t.Fatalf("CharsetOffset = %d, want 99", td.CharsetOffset)
	}
	if td.IsCIDKeyed {
		t.Fatal("IsCIDKeyed = true, want false")
	}
}

func TestParseTopDictDetectsCIDKeyed(t *testing.T) {
	dict := []byte{}
	dict = append(dict, 28, 0, 1) // int16 operand, unused
	dict = append(dict, 12, 30)   // ROS operator (two-byte, escape 12 30)
	dict = append(dict, 28, byte(1>>8), 1)
	dict = append(dict, opCharStrings)

	td, err := ParseTopDict(dict)
	if err != nil {
		t.Fatal(err)
	}
	if !td.IsCIDKeyed {
		t.Fatal("IsCIDKeyed = false, want true")
	}
}

func TestParseTopDictRejectsMissingCharStrings(t *testing.T) {
	dict := []byte{28, 0, 1} // an int16 operand with no operator following
	if _, err := ParseTopDict(dict); err == nil {
		t.Fatal("expected error for missing CharStrings operator")
	}
}
