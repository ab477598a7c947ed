package idgen

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestGenerateIsSortableWithinMillisecond(t *testing.T) {
	g := NewULIDGenerator()
	fixed := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	prev := g.Generate()
	for i := 0; i < 100; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}

	id, err := ulid.Parse(prev)
	if err != nil {
		t.Fatalf("invalid ulid %q: %v", prev, err)
	}
	if !ulid.Time(id.Time()).Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", ulid.Time(id.Time()))
	}
}
