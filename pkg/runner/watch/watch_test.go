package watch

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/store"
)

func newWatch(t *testing.T) (*Watch, *bytes.Buffer, *broadcast.Listener) {
	t.Helper()
	color.NoColor = true
	mem := store.NewMemory(
		aspect.Aspect{ID: "h", Name: "Health", Entries: []aspect.DayBucket{{
			Date:         "2025-03-10",
			EntriesToday: []aspect.Entry{{ID: "e1", Text: "Ran 5km", Time: "07:30"}},
		}}},
		aspect.Aspect{ID: "r", Name: "Reading"},
	)
	var out bytes.Buffer
	n := &Watch{
		Service: &app.Service{Persistence: mem},
		Printer: &printers.PrettyPrint{Out: &out},
		view:    broadcast.View{Screen: broadcast.ScreenDetail, AspectID: "h"},
	}
	ctx := context.Background()
	l := &broadcast.Listener{
		View: n.current,
		Refresh: func(r broadcast.Refresh, m broadcast.Message) {
			n.refresh(ctx, r, m)
		},
	}
	return n, &out, l
}

func TestDetailSurvivesOtherAspects(t *testing.T) {
	n, out, l := newWatch(t)
	detail := broadcast.View{Screen: broadcast.ScreenDetail, AspectID: "h"}

	l.Handle(broadcast.Message{Type: broadcast.EntryAdded, Data: broadcast.Data{ID: "x", AspectID: "r"}})
	require.Equal(t, detail, n.current())
	require.NotContains(t, out.String(), "created", "a change to another aspect refreshes the list")

	out.Reset()
	l.Handle(broadcast.Message{Type: broadcast.EntryAdded, Data: broadcast.Data{ID: "e2", AspectID: "h"}})
	require.Equal(t, detail, n.current())
	require.Contains(t, out.String(), "created")

	out.Reset()
	l.Handle(broadcast.Message{Type: broadcast.AspectDeleted, Data: broadcast.Data{ID: "r"}})
	require.Equal(t, detail, n.current())
}

func TestDetailFallsBackWhenDeleted(t *testing.T) {
	n, out, l := newWatch(t)

	l.Handle(broadcast.Message{Type: broadcast.AspectDeleted, Data: broadcast.Data{ID: "h", Name: "Health"}})
	require.Equal(t, broadcast.View{Screen: broadcast.ScreenList}, n.current())

	out.Reset()
	l.Handle(broadcast.Message{Type: broadcast.EntryAdded, Data: broadcast.Data{ID: "e2", AspectID: "h"}})
	require.Equal(t, broadcast.View{Screen: broadcast.ScreenList}, n.current())
	require.NotContains(t, out.String(), "created")
}

func TestDetailFallsBackWhenMissing(t *testing.T) {
	n, out, _ := newWatch(t)
	n.view = broadcast.View{Screen: broadcast.ScreenDetail, AspectID: "gone"}

	n.render(context.Background(), broadcast.Refresh(n.current()))
	require.Equal(t, broadcast.View{Screen: broadcast.ScreenList}, n.current())
	require.Contains(t, out.String(), "Health")
	require.NotContains(t, out.String(), "created")
}
