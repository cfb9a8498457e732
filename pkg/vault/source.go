package vault

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/ovenbird/crumb/pkg/post"
)

// eventSource adapts a post event channel to the generic
// lifecycle.Source contract, so a host application can supervise the
// vault's change stream alongside its other components. post.Event
// satisfies lifecycle.Event through its String method.
type eventSource struct {
	in  <-chan post.Event
	out chan lifecycle.Event
}

// NewEventSource wraps events, typically a Repository.Watch channel,
// as a lifecycle.Source. The source closes its output when events
// closes or the start context is canceled.
func NewEventSource(events <-chan post.Event) lifecycle.Source {
	return &eventSource{in: events, out: make(chan lifecycle.Event)}
}

func (s *eventSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *eventSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *eventSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-s.in:
			if !ok {
				return nil
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
