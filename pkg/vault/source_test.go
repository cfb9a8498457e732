package vault

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ovenbird/crumb/pkg/post"
)

func TestEventSource_ForwardsEvents(t *testing.T) {
	in := make(chan post.Event, 1)
	src := NewEventSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	in <- post.Event{Type: post.EventModify, Slug: "essays/boule"}

	select {
	case ev := <-src.Events():
		if !strings.Contains(ev.String(), "essays/boule") {
			t.Errorf("forwarded event = %q", ev.String())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never forwarded")
	}
}

func TestEventSource_ClosesWithInput(t *testing.T) {
	in := make(chan post.Event)
	src := NewEventSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	close(in)

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected closed output channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("output never closed after input closed")
	}
}
