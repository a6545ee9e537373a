package progress

import (
	"errors"
	"sync"
	"testing"

	"github.com/samvrith66/astra/internal/career"
)

type mockState struct {
	mu       sync.Mutex
	roadmap  *career.Roadmap
	messages []career.AgentMessage
}

func (m *mockState) Roadmap() (career.Roadmap, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roadmap == nil {
		return career.Roadmap{}, false
	}
	return *m.roadmap, true
}

func (m *mockState) SetRoadmap(r career.Roadmap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roadmap = &r
}

func (m *mockState) AppendMessage(typ career.MessageType, text string) career.AgentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := career.AgentMessage{Type: typ, Message: text}
	m.messages = append(m.messages, msg)
	return msg
}

type mockPersister struct {
	mu    sync.Mutex
	saved map[string]bool
	err   error
}

func (m *mockPersister) SetDayDone(dayKey string, done bool) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[string]bool{}
	}
	m.saved[dayKey] = done
	return nil
}

func twoWeekRoadmap() career.Roadmap {
	return career.Roadmap{
		Weeks: []career.Week{
			{WeekNumber: 1, Theme: "A", Days: []career.Day{{Day: 1}, {Day: 2}}},
			{WeekNumber: 2, Theme: "B", Days: []career.Day{{Day: 8}, {Day: 9}}},
		},
		Progress: map[string]bool{},
	}
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	st := &mockState{}
	st.SetRoadmap(twoWeekRoadmap())
	store := &mockPersister{}
	tr := NewTracker(st, store)

	done, err := tr.Toggle(2, 9)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !done {
		t.Fatal("done = false, want true")
	}
	if !store.saved["w2d9"] {
		t.Error("toggle not persisted under w2d9")
	}

	done, err = tr.Toggle(2, 9)
	if err != nil {
		t.Fatalf("second Toggle error: %v", err)
	}
	if done {
		t.Fatal("done = true after second toggle, want false")
	}
	if store.saved["w2d9"] {
		t.Error("persisted state not flipped back")
	}
}

func TestToggle_NoRoadmap(t *testing.T) {
	tr := NewTracker(&mockState{}, &mockPersister{})
	if _, err := tr.Toggle(1, 1); !errors.Is(err, ErrNoRoadmap) {
		t.Fatalf("err = %v, want ErrNoRoadmap", err)
	}
}

func TestToggle_PersistFailureKeepsMemoryState(t *testing.T) {
	st := &mockState{}
	st.SetRoadmap(twoWeekRoadmap())
	tr := NewTracker(st, &mockPersister{err: errors.New("disk full")})

	done, err := tr.Toggle(1, 1)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !done {
		t.Fatal("done = false, want true despite persist failure")
	}
	roadmap, _ := st.Roadmap()
	if !roadmap.Progress["w1d1"] {
		t.Error("in-memory toggle undone by persist failure")
	}
}

func TestToggle_WeekCompletionFiresOnce(t *testing.T) {
	st := &mockState{}
	st.SetRoadmap(twoWeekRoadmap())
	tr := NewTracker(st, &mockPersister{})

	var fired []int
	tr.OnWeekComplete = func(week int) { fired = append(fired, week) }

	if _, err := tr.Toggle(1, 1); err != nil {
		t.Fatal(err)
	}
	if len(fired) != 0 {
		t.Fatal("callback fired before week was complete")
	}

	if _, err := tr.Toggle(1, 2); err != nil {
		t.Fatal(err)
	}
	if len(fired) != 1 || fired[0] != 1 {
		t.Fatalf("fired = %v, want exactly [1]", fired)
	}

	// Untoggle and re-toggle: transition happens again, callback again.
	tr.Toggle(1, 2)
	tr.Toggle(1, 2)
	if len(fired) != 2 {
		t.Fatalf("fired = %v, want second completion event", fired)
	}

	found := false
	for _, m := range st.messages {
		if m.Type == career.MessageSuccess {
			found = true
		}
	}
	if !found {
		t.Error("no celebratory message recorded")
	}
}

func TestIsWeekComplete(t *testing.T) {
	r := twoWeekRoadmap()
	if IsWeekComplete(r, 1) {
		t.Error("empty progress reported complete")
	}
	r.Progress["w1d1"] = true
	r.Progress["w1d2"] = true
	if !IsWeekComplete(r, 1) {
		t.Error("fully checked week reported incomplete")
	}
	if IsWeekComplete(r, 2) {
		t.Error("untouched week reported complete")
	}
	if IsWeekComplete(r, 7) {
		t.Error("missing week reported complete")
	}
}

func TestCompletedCount_IgnoresStaleKeys(t *testing.T) {
	r := twoWeekRoadmap()
	r.Progress["w1d1"] = true
	r.Progress["w9d99"] = true // left over from a previous roadmap
	if got := CompletedCount(r); got != 1 {
		t.Errorf("CompletedCount = %d, want 1", got)
	}
}

func TestCompletedInWeek(t *testing.T) {
	r := twoWeekRoadmap()
	r.Progress["w2d8"] = true
	if got := CompletedInWeek(r, 2); got != 1 {
		t.Errorf("CompletedInWeek = %d, want 1", got)
	}
	if got := CompletedInWeek(r, 1); got != 0 {
		t.Errorf("CompletedInWeek(1) = %d, want 0", got)
	}
}
