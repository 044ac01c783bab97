package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Simulation hooks
	s := NoopSimulationHooks{}
	s.OnSettleStart(ctx, "office", 12, 14)
	s.OnSettleComplete(ctx, "office", 300, time.Second, nil)
	s.OnMutation(ctx, "office", "create_link")

	// Store hooks
	st := NoopStoreHooks{}
	st.OnLoad(ctx, "office", true)
	st.OnSave(ctx, "office", 512, nil)
	st.OnCorrupt(ctx, nil)

	// View hooks
	v := NoopViewHooks{}
	v.OnViewOpen(ctx, "view-1", "office")
	v.OnViewClose(ctx, "view-1", time.Minute)
	v.OnCommand(ctx, "view-1", "drag", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := View().(NoopViewHooks); !ok {
		t.Error("View() should return NoopViewHooks by default")
	}

	// Set custom hooks
	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customView := &testViewHooks{}
	SetViewHooks(customView)
	if View() != customView {
		t.Error("SetViewHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Reset() should restore NoopSimulationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testStoreHooks{}
	SetStoreHooks(custom)

	// Setting nil should be ignored
	SetStoreHooks(nil)

	if Store() != custom {
		t.Error("SetStoreHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSimulationHooks struct{ NoopSimulationHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testViewHooks struct{ NoopViewHooks }
