// Package watch keeps a live view of the grid, refreshing it whenever another
// grid process changes the store.
package watch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/schedule"
	"tableflip.dev/grid/pkg/stats"
)

// FocusCheck is how often the daily focus is re-evaluated.
const FocusCheck = time.Hour

type Watch struct {
	// Ref shows one aspect; empty shows the overview.
	Ref string
	// QuoteEvery rotates the quote line; zero disables it.
	QuoteEvery time.Duration

	Service *app.Service
	Printer *printers.PrettyPrint
	// Scheduler drives the periodic tasks; the service clock when nil.
	Scheduler schedule.Scheduler

	mu   sync.Mutex
	view broadcast.View
}

func (n *Watch) Do(ctx context.Context) error {
	log := n.Service.Log
	if log == nil {
		log = zap.NewNop()
	}
	sched := n.Scheduler
	if sched == nil {
		sched = n.Service.Clock
	}
	if sched == nil {
		sched = schedule.Real{}
	}

	n.view = broadcast.View{Screen: broadcast.ScreenList}
	if n.Ref != "" {
		a, err := n.Service.Resolve(ctx, n.Ref)
		if err != nil {
			return err
		}
		n.view = broadcast.View{Screen: broadcast.ScreenDetail, AspectID: a.ID}
	}

	n.focus(ctx, log)
	n.render(ctx, broadcast.Refresh(n.current()))

	bus := broadcast.NewBus()
	l := &broadcast.Listener{
		Origin: n.Service.Origin(),
		View:   n.current,
		Refresh: func(r broadcast.Refresh, m broadcast.Message) {
			n.refresh(ctx, r, m)
		},
		Log: log.Named("listener"),
	}
	unsubscribe := bus.Subscribe(l.Handle)
	defer unsubscribe()

	var ch broadcast.Channel = broadcast.Nop{}
	if n.Service.Channel != nil {
		ch = n.Service.Channel
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return broadcast.Pump(ctx, ch, bus)
	})
	g.Go(func() error {
		return n.storeEvents(ctx, log)
	})

	if n.QuoteEvery > 0 {
		r := rand.New(rand.NewSource(sched.Now().UnixNano()))
		schedule.Every(ctx, sched, n.QuoteEvery, func() {
			n.Printer.Info("%s", stats.Quote(r))
		})
	}
	schedule.Every(ctx, sched, FocusCheck, func() {
		if ran := n.focus(ctx, log); ran {
			n.render(ctx, broadcast.Refresh(n.current()))
		}
	})

	return g.Wait()
}

// storeEvents refreshes on raw store changes when there is no channel to
// announce them.
func (n *Watch) storeEvents(ctx context.Context, log *zap.Logger) error {
	events, err := n.Service.Watch(ctx)
	if err != nil {
		log.Warn("store watch unavailable", zap.Error(err))
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug("store changed", zap.String("key", ev.Key))
			if n.Service.Origin() == "" {
				n.render(ctx, broadcast.Refresh(n.current()))
			}
		}
	}
}

func (n *Watch) focus(ctx context.Context, log *zap.Logger) bool {
	_, ran, err := n.Service.DailyFocus(ctx)
	if err != nil {
		log.Warn("daily focus failed", zap.Error(err))
		return false
	}
	return ran
}

func (n *Watch) current() broadcast.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// refresh applies one routed message. The watched aspect stays open until it
// is deleted; other changes only refresh the list.
func (n *Watch) refresh(ctx context.Context, r broadcast.Refresh, m broadcast.Message) {
	if m.Type == broadcast.AspectPinned && m.Data.Name != "" {
		n.Printer.Info("%s is today's focus.", m.Data.Name)
	}
	if m.Type == broadcast.AspectDeleted {
		n.mu.Lock()
		if n.view.Screen == broadcast.ScreenDetail && m.Pertains(n.view.AspectID) {
			n.view = broadcast.View{Screen: broadcast.ScreenList}
		}
		n.mu.Unlock()
	}
	n.render(ctx, r)
}

func (n *Watch) render(ctx context.Context, r broadcast.Refresh) {
	if r.Screen == broadcast.ScreenDetail {
		a, err := n.Service.Aspect(ctx, r.AspectID)
		if err == nil {
			n.Printer.Aspect(a)
			return
		}
		n.mu.Lock()
		if n.view.AspectID == r.AspectID {
			n.view = broadcast.View{Screen: broadcast.ScreenList}
		}
		n.mu.Unlock()
	}
	list, err := n.Service.Aspects(ctx)
	if err != nil {
		n.Printer.Warn("reload failed: %v", err)
		return
	}
	n.Printer.Aspects(list)
}
