package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow err: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d debería pasar", i)
		}
		if res.Remaining != int64(3-i) {
			t.Fatalf("hit %d: remaining = %d", i, res.Remaining)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow err: %v", err)
	}
	if res.Allowed {
		t.Fatalf("hit 4 debería bloquearse")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v", res.RetryAfter)
	}

	// Otra key no comparte ventana
	res, _ = l.Allow(ctx, "5.6.7.8")
	if !res.Allowed {
		t.Fatalf("keys distintas no deberían compartir contador")
	}
}
