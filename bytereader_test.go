package pjc

import "testing"

func TestByteReaderReads(t *testing.T) {
	r := NewByteReader([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x01, 0xFF})
	if got := r.U4(); got != 0xCAFEBABE {
		t.Errorf("U4()=%#x, want 0xCAFEBABE", got)
	}
	if got := r.U2(); got != 0x0001 {
		t.Errorf("U2()=%#x, want 0x0001", got)
	}
	if got := r.S1(); got != -1 {
		t.Errorf("S1()=%d, want -1", got)
	}
}

func TestByteReaderU8(t *testing.T) {
	r := NewByteReader([]byte{0, 0, 0, 0, 0, 0, 0, 42})
	if got := r.U8(); got != 42 {
		t.Errorf("U8()=%d, want 42", got)
	}
}

func TestByteReaderBytesAndSkip(t *testing.T) {
	r := NewByteReader([]byte{1, 2, 3, 4, 5})
	r.Skip(2)
	got := r.Bytes(2)
	want := []byte{3, 4}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Bytes()=%v, want %v", got, want)
	}
	if r.Remaining() != 1 {
		t.Errorf("Remaining()=%d, want 1", r.Remaining())
	}
}

func TestByteReaderSeek(t *testing.T) {
	r := NewByteReader([]byte{1, 2, 3, 4})
	r.Seek(2)
	if got := r.U2(); got != 0x0304 {
		t.Errorf("U2() after Seek(2)=%#x, want 0x0304", got)
	}
}

func TestByteReaderShortReadIsFatal(t *testing.T) {
	defer func() {
		rec := recover()
		msg, ok := ClassifyRecover(rec)
		if !ok {
			t.Fatalf("expected a Diagnostic panic, got none")
		}
		if msg == "" {
			t.Fatalf("expected a non-empty diagnostic message")
		}
	}()
	r := NewByteReader([]byte{0x01})
	r.U4()
	t.Fatalf("U4() on a 1-byte buffer did not panic")
}
