package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/topology"
)

var vp = viewport.Viewport{Width: 2000, Height: 750, NodeDiameter: 48}

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func stored(t *testing.T, backend kv.Store) []SavedTopology {
	t.Helper()
	data, ok, err := backend.Get(context.Background(), Key)
	if err != nil || !ok {
		t.Fatalf("Get(%s) = %v, %v", Key, ok, err)
	}
	var all []SavedTopology
	if err := json.Unmarshal(data, &all); err != nil {
		t.Fatalf("stored data is not a record array: %v", err)
	}
	return all
}

func TestLoadCreatesRecord(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, quiet())

	rec, err := s.Load(ctx, "office")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if rec.ID != "office" || !rec.Gravity || len(rec.IPs) != 0 {
		t.Errorf("Load() = %+v, want fresh record with gravity on", rec)
	}

	all := stored(t, backend)
	if len(all) != 1 || all[0].ID != "office" {
		t.Errorf("stored = %+v, want one office record", all)
	}

	data, _, _ := backend.Get(ctx, Key)
	want := `[{"id":"office","gravity":true,"ips":[]}]`
	if string(data) != want {
		t.Errorf("stored JSON = %s, want %s", data, want)
	}
}

func TestRecordDragRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, quiet())
	if _, err := s.Load(ctx, "office"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordDrag(ctx, "10.0.0.2", 300, 200); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordDrag(ctx, "10.0.0.1", 120.6, 80.2); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordDrag(ctx, "10.0.0.1", 140.5, 90); err != nil {
		t.Fatal(err)
	}

	rec, err := New(backend, quiet()).Load(ctx, "office")
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := rec.Lookup("10.0.0.1"); !ok || e.X != 140.5 || e.Y != 90 {
		t.Errorf("10.0.0.1 = %+v, want (140.5, 90)", e)
	}
	if e, ok := rec.Lookup("10.0.0.2"); !ok || e.X != 300 || e.Y != 200 {
		t.Errorf("10.0.0.2 = %+v, want unchanged (300, 200)", e)
	}
	if len(rec.IPs) != 2 {
		t.Errorf("entries = %d, want 2", len(rec.IPs))
	}
}

func TestGravityToggle(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, quiet())
	if _, err := s.Load(ctx, "office"); err != nil {
		t.Fatal(err)
	}

	a := topology.NewNode("A")
	a.X, a.Y = 120.6, 80.2
	b := topology.NewNode("B")
	b.X, b.Y = 500.4, 299.5

	if err := s.RecordGravityToggle(ctx, []*topology.Node{a, b}, false); err != nil {
		t.Fatal(err)
	}
	rec := stored(t, backend)[0]
	if rec.Gravity {
		t.Error("Gravity = true, want false")
	}
	want := []Entry{{"A", 121, 80}, {"B", 500, 300}}
	if len(rec.IPs) != len(want) {
		t.Fatalf("IPs = %+v, want %+v", rec.IPs, want)
	}
	for i := range want {
		if rec.IPs[i] != want[i] {
			t.Errorf("IPs[%d] = %+v, want %+v", i, rec.IPs[i], want[i])
		}
	}

	if err := s.RecordGravityToggle(ctx, []*topology.Node{a, b}, true); err != nil {
		t.Fatal(err)
	}
	rec = stored(t, backend)[0]
	if !rec.Gravity || len(rec.IPs) != 0 {
		t.Errorf("after gravity on = %+v, want gravity and no entries", rec)
	}
}

func TestApplyToLiveNodes(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, quiet(), WithRandom(func() float64 { return 0.5 }))
	rec, err := s.Load(ctx, "office")
	if err != nil {
		t.Fatal(err)
	}
	rec.IPs = append(rec.IPs, Entry{IP: "A", X: 10, Y: 20})

	a, b := topology.NewNode("A"), topology.NewNode("B")
	if err := s.ApplyToLiveNodes(ctx, []*topology.Node{a, b}, rec, vp); err != nil {
		t.Fatal(err)
	}

	if a.X != 10 || a.Y != 20 {
		t.Errorf("A = (%v,%v), want saved (10,20)", a.X, a.Y)
	}
	if b.X != 1000 || b.Y != 375 {
		t.Errorf("B = (%v,%v), want random (1000,375)", b.X, b.Y)
	}
	all := stored(t, backend)
	if len(all[0].IPs) != 2 {
		t.Errorf("stored entries = %d, want 2", len(all[0].IPs))
	}
}

func TestCorruptDataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	if err := backend.Set(ctx, Key, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	s := New(backend, quiet())
	rec, err := s.Load(ctx, "office")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if !rec.Gravity || len(rec.IPs) != 0 {
		t.Errorf("Load() = %+v, want fresh record", rec)
	}
	if all := stored(t, backend); len(all) != 1 {
		t.Errorf("corrupt data not replaced: %+v", all)
	}
}

func TestMultipleTopologiesCoexist(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()

	office := New(backend, quiet())
	lab := New(backend, quiet())
	if _, err := office.Load(ctx, "office"); err != nil {
		t.Fatal(err)
	}
	if _, err := lab.Load(ctx, "lab"); err != nil {
		t.Fatal(err)
	}
	if err := office.RecordDrag(ctx, "A", 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := lab.RecordDrag(ctx, "B", 3, 4); err != nil {
		t.Fatal(err)
	}

	list, err := office.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %d records, want 2", len(list))
	}
	if _, ok := list[0].Lookup("A"); !ok {
		t.Error("office lost its entry after lab saved")
	}

	removed, err := office.Remove(ctx, "lab")
	if err != nil || !removed {
		t.Fatalf("Remove(lab) = %v, %v", removed, err)
	}
	if removed, _ := office.Remove(ctx, "lab"); removed {
		t.Error("Remove(lab) twice = true, want false")
	}
}

type failing struct{ *kv.Memory }

func (*failing) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("unreachable")
}

func TestLoadUnavailableBackend(t *testing.T) {
	s := New(&failing{kv.NewMemory()}, quiet())
	rec, err := s.Load(context.Background(), "office")
	if err == nil {
		t.Error("Load() error = nil, want backend error")
	}
	if rec == nil || rec.ID != "office" || !rec.Gravity {
		t.Errorf("Load() = %+v, want usable in-memory record", rec)
	}
}
