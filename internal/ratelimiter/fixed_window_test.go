package ratelimiter

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}

	ok, retry := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("request over limit allowed")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("retry-after = %v", retry)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	rl := NewFixedWindowLimiter(1, time.Minute)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first client denied")
	}
	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Fatal("second client throttled by first client's window")
	}
}

func TestWindowResets(t *testing.T) {
	rl := NewFixedWindowLimiter(1, 10*time.Millisecond)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first request denied")
	}
	if ok, _ := rl.Allow("10.0.0.1"); ok {
		t.Fatal("second request allowed within window")
	}

	time.Sleep(15 * time.Millisecond)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("request denied after window reset")
	}
}
