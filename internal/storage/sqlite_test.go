package storage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samvrith66/astra/internal/career"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadProfile(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadProfile on empty store: err = %v, want ErrNotFound", err)
	}

	p := career.Profile{
		Source:  career.SourceResume,
		RawText: "resume text",
		Skills: career.SkillSet{
			Technical:       []string{"Go", "SQL"},
			NonTechnical:    []string{"Communication"},
			ExperienceLevel: career.LevelIntermediate,
		},
	}
	if err := s.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("LoadProfile = %+v, want %+v", got, p)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveRole(career.Role{ID: "one", Title: "One"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRole(career.Role{ID: "two", Title: "Two"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadRole()
	if err != nil {
		t.Fatalf("LoadRole: %v", err)
	}
	if got.ID != "two" {
		t.Errorf("ID = %q, want latest write", got.ID)
	}
}

func TestRoadmapRoundTrip(t *testing.T) {
	s := openTestStore(t)

	r := career.Roadmap{
		Weeks: []career.Week{{
			WeekNumber: 1,
			Theme:      "Foundations",
			Days:       []career.Day{{Day: 1, Focus: "Basics", Resource: career.Resource{Title: "Docs", URL: "https://example.com"}}},
		}},
		Progress: map[string]bool{"w1d1": true},
	}
	if err := s.SaveRoadmap(r); err != nil {
		t.Fatalf("SaveRoadmap: %v", err)
	}
	got, err := s.LoadRoadmap()
	if err != nil {
		t.Fatalf("LoadRoadmap: %v", err)
	}
	if !reflect.DeepEqual(got, r) {
		t.Errorf("LoadRoadmap = %+v, want %+v", got, r)
	}
}

func TestDayProgress(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetDayDone("w1d1", true); err != nil {
		t.Fatalf("SetDayDone: %v", err)
	}
	if err := s.SetDayDone("w1d2", true); err != nil {
		t.Fatalf("SetDayDone: %v", err)
	}
	if err := s.SetDayDone("w1d2", false); err != nil {
		t.Fatalf("SetDayDone upsert: %v", err)
	}

	got, err := s.LoadProgress()
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	want := map[string]bool{"w1d1": true, "w1d2": false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadProgress = %v, want %v", got, want)
	}
}

func TestMessages(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		m := career.AgentMessage{
			ID:        string(rune('a' + i)),
			Type:      career.MessageScan,
			Message:   "msg",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveMessage(m); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	got, err := s.RecentMessages(2)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestResetAll(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveProfile(career.Profile{Source: career.SourceDemo}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDayDone("w1d1", true); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMessage(career.AgentMessage{ID: "m1", Type: career.MessageScan, Timestamp: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}

	if _, err := s.LoadProfile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("profile survived reset: err = %v", err)
	}
	progress, err := s.LoadProgress()
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if len(progress) != 0 {
		t.Errorf("progress survived reset: %v", progress)
	}
	msgs, err := s.RecentMessages(10)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages survived reset: %d", len(msgs))
	}
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("001_init.sql")
	if err != nil {
		t.Fatalf("parseMigrationVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	if _, err := parseMigrationVersion("init.sql"); err == nil {
		t.Error("malformed migration name accepted")
	}
}
