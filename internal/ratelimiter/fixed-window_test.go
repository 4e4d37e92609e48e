package ratelimiter

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestFixedWindowLimit(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := newFixedWindowLimiter(2, 5*time.Second, clock.now)

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d denied", i+1)
		}
	}

	clock.t = clock.t.Add(time.Second)
	ok, retry := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request in window allowed")
	}
	if retry != 4*time.Second {
		t.Errorf("retry = %s, want 4s", retry)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other client denied")
	}

	clock.t = clock.t.Add(4 * time.Second)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("request after window reset denied")
	}
}

func TestFixedWindowSweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := newFixedWindowLimiter(1, time.Second, clock.now)

	rl.Allow("a")
	clock.t = clock.t.Add(500 * time.Millisecond)
	rl.Allow("b")

	clock.t = clock.t.Add(600 * time.Millisecond)
	rl.sweep()

	if _, ok := rl.clients["a"]; ok {
		t.Error("expired client kept")
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Error("live client dropped")
	}
}
