package model

import (
	"errors"
	"runtime"
	"testing"
)

func paths(ws []Wallpaper) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Path
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newStateWith(t *testing.T, setter WallpaperSetter, names ...string) *State {
	t.Helper()
	s := NewState(setter)
	for _, n := range names {
		s.AddWallpaper(NewWallpaper(n, FittingCover))
	}
	return s
}

func TestAddThenMoveDown(t *testing.T) {
	s := newStateWith(t, nil, "A", "B")
	if err := s.UpdateWallpaper(0, MoveDown()); err != nil {
		t.Fatalf("UpdateWallpaper: %v", err)
	}
	ws, _ := s.Wallpapers()
	if got := paths(ws); !equalStrings(got, []string{"B", "A"}) {
		t.Fatalf("order = %v, want [B A]", got)
	}
}

func TestReorderLaws(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ops   []Operation
		want  []string
	}{
		{"move up at head", 0, []Operation{MoveUp()}, []string{"A", "B", "C"}},
		{"move down at tail", 2, []Operation{MoveDown()}, []string{"A", "B", "C"}},
		{"move up middle", 1, []Operation{MoveUp()}, []string{"B", "A", "C"}},
		{"move down middle", 1, []Operation{MoveDown()}, []string{"A", "C", "B"}},
		{"remove middle", 1, []Operation{Remove()}, []string{"A", "C"}},
		{"remove head", 0, []Operation{Remove()}, []string{"B", "C"}},
		{"remove tail", 2, []Operation{Remove()}, []string{"A", "B"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStateWith(t, nil, "A", "B", "C")
			for _, op := range tc.ops {
				if err := s.UpdateWallpaper(tc.index, op); err != nil {
					t.Fatalf("UpdateWallpaper(%d, %s): %v", tc.index, op, err)
				}
			}
			ws, _ := s.Wallpapers()
			if got := paths(ws); !equalStrings(got, tc.want) {
				t.Fatalf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMoveUpThenDownRestoresOrder(t *testing.T) {
	for index := 1; index < 4; index++ {
		s := newStateWith(t, nil, "A", "B", "C", "D")
		if err := s.UpdateWallpaper(index, MoveUp()); err != nil {
			t.Fatal(err)
		}
		if err := s.UpdateWallpaper(index-1, MoveDown()); err != nil {
			t.Fatal(err)
		}
		ws, _ := s.Wallpapers()
		if got := paths(ws); !equalStrings(got, []string{"A", "B", "C", "D"}) {
			t.Fatalf("index %d: order = %v", index, got)
		}
	}
}

func TestSetFitting(t *testing.T) {
	s := newStateWith(t, nil, "A")
	if err := s.UpdateWallpaper(0, SetFitting(FittingTile)); err != nil {
		t.Fatal(err)
	}
	ws, _ := s.Wallpapers()
	if ws[0].Fitting != FittingTile {
		t.Fatalf("fitting = %s, want tile", ws[0].Fitting)
	}

	if err := s.UpdateWallpaper(0, SetFitting(Fitting(42))); err == nil {
		t.Fatalf("expected error for invalid fitting")
	}
}

func TestEveryBranchNotifies(t *testing.T) {
	s := newStateWith(t, nil, "A", "B")
	var events []Event
	sub := s.Subscribe(func(e Event) { events = append(events, e) })
	defer sub.Unsubscribe()

	ops := []struct {
		index int
		op    Operation
	}{
		{0, MoveUp()},
		{1, MoveDown()},
		{0, SetFitting(FittingCenter)},
		{0, MoveDown()},
		{1, Remove()},
	}
	for _, o := range ops {
		if err := s.UpdateWallpaper(o.index, o.op); err != nil {
			t.Fatalf("UpdateWallpaper(%d, %s): %v", o.index, o.op, err)
		}
	}

	if len(events) != len(ops) {
		t.Fatalf("events = %d, want %d", len(events), len(ops))
	}
	for _, e := range events {
		if e != WallpapersUpdated {
			t.Fatalf("unexpected event %s", e)
		}
	}
}

func TestOutOfRangeIsAnError(t *testing.T) {
	s := newStateWith(t, nil, "A")
	calls := 0
	sub := s.Subscribe(func(Event) { calls++ })
	defer sub.Unsubscribe()

	for _, idx := range []int{-1, 1, 5} {
		err := s.UpdateWallpaper(idx, Remove())
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("UpdateWallpaper(%d): err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if calls != 0 {
		t.Fatalf("out-of-range update published %d events", calls)
	}
}

func TestUpdateByIDFollowsReorder(t *testing.T) {
	s := newStateWith(t, nil, "A", "B", "C")
	ws, _ := s.Wallpapers()
	target := ws[2].ID

	if err := s.UpdateWallpaper(0, Remove()); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateWallpaperByID(target, MoveUp()); err != nil {
		t.Fatal(err)
	}

	ws, _ = s.Wallpapers()
	if got := paths(ws); !equalStrings(got, []string{"C", "B"}) {
		t.Fatalf("order = %v, want [C B]", got)
	}

	if err := s.UpdateWallpaperByID(ws[0].ID, Remove()); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateWallpaperByID(target, Remove()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetMonitorsPublishesAndCopies(t *testing.T) {
	s := NewState(nil)
	var got []Event
	sub := s.Subscribe(func(e Event) { got = append(got, e) })

	in := []Monitor{{ID: "DP-1", Width: 1920, Height: 1080}}
	s.SetMonitors(in)
	in[0].ID = "mutated"

	ms, version := s.Monitors()
	if len(ms) != 1 || ms[0].ID != "DP-1" {
		t.Fatalf("monitors = %+v", ms)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if len(got) != 1 || got[0] != MonitorsUpdated {
		t.Fatalf("events = %v", got)
	}
	runtime.KeepAlive(sub)
}

func TestSubscriberMayReadStateDuringNotify(t *testing.T) {
	s := NewState(nil)
	seen := -1
	sub := s.Subscribe(func(e Event) {
		ws, _ := s.Wallpapers()
		seen = len(ws)
	})
	defer sub.Unsubscribe()

	s.AddWallpaper(NewWallpaper("/tmp/a.png", FittingCover))
	if seen != 1 {
		t.Fatalf("subscriber saw %d wallpapers, want 1", seen)
	}
}

type recordingSetter struct {
	state   *State
	monitor string
	path    string
	fitting Fitting
	err     error
}

func (r *recordingSetter) SetWallpaper(monitorID, path string, fitting Fitting) error {
	r.monitor, r.path, r.fitting = monitorID, path, fitting
	if r.state != nil {
		// Would deadlock if the state lock were still held.
		r.state.SetMonitors(nil)
	}
	return r.err
}

func TestApplyWallpaperForMonitor(t *testing.T) {
	setter := &recordingSetter{}
	s := newStateWith(t, setter, "/img/a.png", "/img/b.jpg")
	s.SetMonitors([]Monitor{{ID: "HDMI-1"}, {ID: "DP-2"}})
	setter.state = s

	calls := 0
	sub := s.Subscribe(func(Event) { calls++ })
	defer sub.Unsubscribe()

	if err := s.ApplyWallpaperForMonitor(1, 1); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if setter.monitor != "DP-2" || setter.path != "/img/b.jpg" || setter.fitting != FittingCover {
		t.Fatalf("setter got (%q, %q, %s)", setter.monitor, setter.path, setter.fitting)
	}
	// The only event is the one the setter itself caused.
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestApplyErrors(t *testing.T) {
	boom := errors.New("boom")
	s := newStateWith(t, &recordingSetter{err: boom}, "/img/a.png")
	s.SetMonitors([]Monitor{{ID: "DP-1"}})

	if err := s.ApplyWallpaperForMonitor(0, 0); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if err := s.ApplyWallpaperForMonitor(3, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.ApplyWallpaperForMonitor(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}

	ws, _ := s.Wallpapers()
	if err := s.ApplyWallpaperByID("nope", ws[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	bare := newStateWith(t, nil, "/img/a.png")
	bare.SetMonitors([]Monitor{{ID: "DP-1"}})
	if err := bare.ApplyWallpaperForMonitor(0, 0); !errors.Is(err, ErrNoSetter) {
		t.Fatalf("err = %v, want ErrNoSetter", err)
	}
}

func TestRemoveAll(t *testing.T) {
	s := newStateWith(t, nil, "A", "B")
	for i := 0; i < 2; i++ {
		if err := s.UpdateWallpaper(0, Remove()); err != nil {
			t.Fatal(err)
		}
	}
	ws, version := s.Wallpapers()
	if len(ws) != 0 {
		t.Fatalf("len = %d, want 0", len(ws))
	}
	if version != 4 {
		t.Fatalf("version = %d, want 4", version)
	}
}
