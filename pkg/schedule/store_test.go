package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

var created = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

func sample(id, date string) Schedule {
	return Schedule{
		ID:        id,
		Title:     "event " + id,
		Date:      date,
		Time:      "09:30",
		Color:     DefaultColor,
		Reminder:  Minutes(15),
		CreatedAt: created,
	}
}

func ids(list []Schedule) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestStoreAddAndQuery(t *testing.T) {
	s := NewStore()
	for _, sc := range []Schedule{
		sample("a", "2024-02-14"),
		sample("b", "2024-02-15"),
		sample("c", "2024-02-14"),
	} {
		if err := s.Add(sc); err != nil {
			t.Fatalf("add %s: %v", sc.ID, err)
		}
	}

	if got := fmt.Sprint(ids(s.All())); got != "[a b c]" {
		t.Fatalf("unexpected order %s", got)
	}
	if got := fmt.Sprint(ids(s.ByDate("2024-02-14"))); got != "[a c]" {
		t.Fatalf("unexpected by-date result %s", got)
	}
	if got := s.ByDate("2024-03-01"); len(got) != 0 {
		t.Fatalf("expected no schedules, got %v", ids(got))
	}
	if counts := s.CountByDate(); counts["2024-02-14"] != 2 || counts["2024-02-15"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestStoreAddRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schedule)
		want   error
	}{
		{name: "missing id", mutate: func(s *Schedule) { s.ID = "" }, want: ErrInvalid},
		{name: "blank title", mutate: func(s *Schedule) { s.Title = "   " }, want: ErrInvalid},
		{name: "bad date", mutate: func(s *Schedule) { s.Date = "2024-13-01" }, want: ErrInvalid},
		{name: "bad time", mutate: func(s *Schedule) { s.Time = "25:00" }, want: ErrInvalid},
		{name: "short minutes", mutate: func(s *Schedule) { s.Time = "9:5" }, want: ErrInvalid},
		{name: "unpadded hour", mutate: func(s *Schedule) { s.Time = "9:30" }, want: ErrInvalid},
		{name: "negative reminder", mutate: func(s *Schedule) { s.Reminder = Minutes(-1) }, want: ErrInvalid},
		{name: "duplicate", mutate: func(s *Schedule) { s.ID = "dup" }, want: ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(sample("dup", "2024-02-14"))
			sc := sample("x", "2024-02-14")
			tt.mutate(&sc)
			err := s.Add(sc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if s.Len() != 1 {
				t.Fatalf("expected store to be unchanged, got %d schedules", s.Len())
			}
		})
	}
}

func TestStoreEdit(t *testing.T) {
	s := NewStore(sample("a", "2024-02-14"), sample("b", "2024-02-14"))

	title := "dentist"
	date := "2024-02-20"
	got, ok, err := s.Edit("a", Patch{Title: &title, Date: &date, ClearReminder: true})
	if err != nil || !ok {
		t.Fatalf("edit: ok=%v err=%v", ok, err)
	}
	if got.Title != title || got.Date != date || got.Reminder != nil {
		t.Fatalf("unexpected edit result %+v", got)
	}
	if got.ID != "a" || !got.CreatedAt.Equal(created) {
		t.Fatalf("edit must keep id and createdAt, got %+v", got)
	}
	if got := ids(s.ByDate("2024-02-20")); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected a to move to 2024-02-20, got %v", got)
	}

	if _, ok, err := s.Edit("missing", Patch{Title: &title}); ok || err != nil {
		t.Fatalf("expected silent no-op for unknown id, got ok=%v err=%v", ok, err)
	}
}

func TestStoreEditCanonicalizesTime(t *testing.T) {
	s := NewStore(sample("a", "2024-02-14"))
	at := "7:05"
	got, ok, err := s.Edit("a", Patch{Time: &at})
	if err != nil || !ok {
		t.Fatalf("edit: ok=%v err=%v", ok, err)
	}
	if got.Time != "07:05" {
		t.Fatalf("expected time 07:05, got %q", got.Time)
	}
}

func TestCanonicalTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "09:30"},
		{in: "9:30", want: "09:30"},
		{in: " 23:59 ", want: "23:59"},
		{in: "0:00", want: "00:00"},
		{in: "9:5", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CanonicalTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("CanonicalTime(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("CanonicalTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreEditInvalidLeavesRecord(t *testing.T) {
	s := NewStore(sample("a", "2024-02-14"))
	bad := "not-a-date"
	if _, ok, err := s.Edit("a", Patch{Date: &bad}); !ok || !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid error, got ok=%v err=%v", ok, err)
	}
	sc, _ := s.Get("a")
	if sc.Date != "2024-02-14" {
		t.Fatalf("expected record unchanged, got date %s", sc.Date)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(sample("a", "2024-02-14"), sample("b", "2024-02-14"), sample("c", "2024-02-14"))
	if !s.Delete("b") {
		t.Fatalf("expected b to be deleted")
	}
	if s.Delete("b") {
		t.Fatalf("expected second delete to be a no-op")
	}
	if got := fmt.Sprint(ids(s.All())); got != "[a c]" {
		t.Fatalf("unexpected remaining %s", got)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore(sample("a", "2024-02-14"))
	all := s.All()
	all[0].Title = "changed"
	*all[0].Reminder = 99

	sc, _ := s.Get("a")
	if sc.Title == "changed" || *sc.Reminder != 15 {
		t.Fatalf("store leaked internal state: %+v", sc)
	}
}

// ByDate must always equal the filtered All, in insertion order, whatever
// sequence of mutations preceded it.
func TestStoreByDateMatchesAll(t *testing.T) {
	dates := []string{"2024-02-13", "2024-02-14", "2024-02-15"}
	r := rand.New(rand.NewSource(7))
	s := NewStore()
	next := 0

	for step := 0; step < 500; step++ {
		all := s.All()
		switch op := r.Intn(3); {
		case op == 0 || len(all) == 0:
			next++
			if err := s.Add(sample(fmt.Sprintf("id-%d", next), dates[r.Intn(len(dates))])); err != nil {
				t.Fatalf("add: %v", err)
			}
		case op == 1:
			d := dates[r.Intn(len(dates))]
			s.Edit(all[r.Intn(len(all))].ID, Patch{Date: &d})
		default:
			s.Delete(all[r.Intn(len(all))].ID)
		}

		all = s.All()
		for _, d := range dates {
			var want []string
			for _, sc := range all {
				if sc.Date == d {
					want = append(want, sc.ID)
				}
			}
			if got := ids(s.ByDate(d)); fmt.Sprint(got) != fmt.Sprint(want) && !(len(got) == 0 && len(want) == 0) {
				t.Fatalf("step %d: ByDate(%s)=%v, want %v", step, d, got, want)
			}
		}
	}
}

func TestInstant(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	sc := sample("a", "2024-02-14")
	got, err := sc.Instant(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.February, 14, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	sc.Time = "nine"
	if _, err := sc.Instant(loc); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestScheduleJSON(t *testing.T) {
	raw := `{"id":"1","title":"standup","date":"2024-02-14","time":"09:30","reminder":15,"color":"#fff","createdAt":"2024-01-02T03:04:05Z"}`
	var sc Schedule
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sc.Reminder == nil || *sc.Reminder != 15 {
		t.Fatalf("expected reminder 15, got %v", sc.Reminder)
	}
	if !sc.CreatedAt.Equal(created) {
		t.Fatalf("unexpected createdAt %v", sc.CreatedAt)
	}

	var none Schedule
	if err := json.Unmarshal([]byte(`{"id":"2","title":"x","date":"2024-02-14","time":"10:00"}`), &none); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if none.HasReminder() {
		t.Fatalf("expected no reminder")
	}
}

func TestSortByStart(t *testing.T) {
	list := []Schedule{
		{ID: "c", Date: "2024-02-15", Time: "08:00"},
		{ID: "a", Date: "2024-02-14", Time: "10:00"},
		{ID: "b", Date: "2024-02-14", Time: "09:00"},
		{ID: "d", Date: "2024-02-14", Time: "10:00"},
	}
	SortByStart(list)
	got := ""
	for _, sc := range list {
		got += sc.ID
	}
	if got != "badc" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestSortByStartComparesClockTime(t *testing.T) {
	list := []Schedule{
		{ID: "late", Date: "2024-02-14", Time: "10:00"},
		{ID: "early", Date: "2024-02-14", Time: "9:30"},
		{ID: "broken", Date: "2024-02-14", Time: "soon"},
	}
	SortByStart(list)
	if got := ids(list); got[0] != "early" || got[1] != "late" || got[2] != "broken" {
		t.Fatalf("unexpected order %v", got)
	}
}
