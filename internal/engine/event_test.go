package engine

import "testing"

func TestEventInvokeInOrder(t *testing.T) {
	var e EventWithArg[int]
	var got []int

	e.AddListener(func(v int) { got = append(got, v) })
	e.AddListener(func(v int) { got = append(got, v*10) })
	e.Invoke(3)

	if len(got) != 2 || got[0] != 3 || got[1] != 30 {
		t.Errorf("Expected [3 30], got %v", got)
	}
}

func TestEventRemoveListener(t *testing.T) {
	var e EventWithArg[string]
	calls := 0

	id := e.AddListener(func(string) { calls++ })
	e.AddListener(func(string) { calls += 10 })

	e.RemoveListener(id)
	if e.GetListenerCount() != 1 {
		t.Errorf("Expected 1 listener, got %d", e.GetListenerCount())
	}

	e.Invoke("x")
	if calls != 10 {
		t.Errorf("Expected only the second listener to run, calls = %d", calls)
	}

	// Unknown IDs are ignored
	e.RemoveListener(999)
	if e.GetListenerCount() != 1 {
		t.Errorf("Expected 1 listener, got %d", e.GetListenerCount())
	}

	e.RemoveAllListeners()
	if e.GetListenerCount() != 0 {
		t.Errorf("Expected 0 listeners, got %d", e.GetListenerCount())
	}
}

func TestEventNilListenerIgnored(t *testing.T) {
	var e EventWithArg[int]
	if id := e.AddListener(nil); id != 0 {
		t.Errorf("Expected ID 0 for nil callback, got %d", id)
	}
	e.Invoke(1)
}
