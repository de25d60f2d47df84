package broadcast

import "go.uber.org/zap"

// Screen is what a running view currently shows.
type Screen int

const (
	// ScreenList is the aspect overview.
	ScreenList Screen = iota
	// ScreenDetail is a single aspect with its entries.
	ScreenDetail
)

func (s Screen) String() string {
	if s == ScreenDetail {
		return "detail"
	}
	return "list"
}

// View describes the visible screen of a running process.
type View struct {
	Screen   Screen
	AspectID string
}

// Refresh tells a view what to re-read from the store.
type Refresh struct {
	Screen   Screen
	AspectID string
}

// Route decides how v refreshes after m. The payload is only a hint; the
// caller always re-reads the store.
func (v View) Route(m Message) Refresh {
	if v.Screen != ScreenDetail || !m.Pertains(v.AspectID) {
		return Refresh{Screen: ScreenList}
	}
	if m.Type == AspectDeleted {
		return Refresh{Screen: ScreenList}
	}
	return Refresh{Screen: ScreenDetail, AspectID: v.AspectID}
}

// Listener applies the refresh policy for one process.
type Listener struct {
	// Origin is this process's channel origin; its own messages are ignored.
	Origin string
	// View reports the current screen.
	View func() View
	// Refresh is invoked once per foreign message.
	Refresh func(Refresh, Message)

	Log *zap.Logger
}

// Handle routes m. It is a Bus Handler.
func (l *Listener) Handle(m Message) {
	if l.Origin != "" && m.Origin == l.Origin {
		return
	}
	v := View{Screen: ScreenList}
	if l.View != nil {
		v = l.View()
	}
	r := v.Route(m)
	if l.Log != nil {
		l.Log.Debug("refresh",
			zap.String("type", string(m.Type)),
			zap.Stringer("screen", r.Screen),
			zap.String("aspect", r.AspectID))
	}
	if l.Refresh != nil {
		l.Refresh(r, m)
	}
}
