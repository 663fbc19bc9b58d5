package share

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := NewCodec("test-salt")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	for _, id := range []int64{1, 6, 42, 99999} {
		code, err := c.Encode(id)
		if err != nil {
			t.Fatalf("encode %d: %v", id, err)
		}
		if len(code) < 8 {
			t.Errorf("code %q shorter than minimum length", code)
		}
		got, err := c.Decode(code)
		if err != nil {
			t.Fatalf("decode %q: %v", code, err)
		}
		if got != id {
			t.Errorf("round trip %d -> %q -> %d", id, code, got)
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	c, err := NewCodec("test-salt")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if _, err := c.Decode("!!not-a-code!!"); err == nil {
		t.Error("expected error for garbage code")
	}
}

func TestSaltChangesCodes(t *testing.T) {
	a, _ := NewCodec("salt-a")
	b, _ := NewCodec("salt-b")

	codeA, _ := a.Encode(6)
	codeB, _ := b.Encode(6)
	if codeA == codeB {
		t.Error("different salts produced the same code")
	}
}
