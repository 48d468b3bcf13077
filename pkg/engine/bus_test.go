package engine

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []any
	listener := func(detail any) { got = append(got, detail) }

	bus.Subscribe("route", listener)
	bus.Publish("route", "/home")
	bus.Publish("other", "ignored")

	if len(got) != 1 || got[0] != "/home" {
		t.Errorf("expected one /home notification, got %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	listener := func(any) { calls++ }

	bus.Subscribe("tick", listener)
	bus.Publish("tick", nil)
	bus.Unsubscribe("tick", listener)
	bus.Publish("tick", nil)

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestBusDeduplicatesSubscriptions(t *testing.T) {
	bus := NewBus()

	calls := 0
	listener := func(any) { calls++ }

	bus.Subscribe("tick", listener)
	bus.Subscribe("tick", listener)
	bus.Publish("tick", nil)

	if calls != 1 {
		t.Errorf("double subscription should dedupe, got %d calls", calls)
	}
}

func TestEnginePublishesPatchEvent(t *testing.T) {
	app := New(nil)

	patches := 0
	app.Bus().Subscribe(EventPatch, func(any) { patches++ })

	var h Helpers
	app.Mount(counterDef(&h), nil, nil)
	if patches != 1 {
		t.Fatalf("mount should publish one patch notification, got %d", patches)
	}

	h.Action("Increment", map[string]any{"step": 1}).Call(click())
	if patches != 2 {
		t.Errorf("dispatch should publish exactly one more, got %d total", patches)
	}
}
