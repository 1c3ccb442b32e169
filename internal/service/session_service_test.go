package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillshare/internal/model"
	"skillshare/internal/testfixtures"
)

func newSessionServiceForTest() (*SessionService, *testfixtures.FakeSessionRepo, *testfixtures.FakeUserRepo) {
	sessionRepo := testfixtures.NewFakeSessionRepo()
	userRepo := testfixtures.NewFakeUserRepo()
	userRepo.Create(context.Background(), &model.User{UID: "owner-1", Username: "alice", Email: "alice@example.com"})
	return NewSessionService(sessionRepo, userRepo), sessionRepo, userRepo
}

func validInput() SessionInput {
	tomorrow := time.Now().Add(24 * time.Hour)
	return SessionInput{
		Title:           "Intro to Go",
		Description:     "Slices, maps and goroutines.",
		Category:        "Tech",
		Difficulty:      "Beginner",
		Date:            tomorrow.Format("2006-01-02"),
		Time:            "18:00",
		Tags:            "go, programming",
		MaxParticipants: 5,
	}
}

func TestCreateSession(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	session, err := svc.Create(ctx, "owner-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID == "" {
		t.Error("expected a generated id")
	}
	if session.CreatedBy != "owner-1" {
		t.Errorf("CreatedBy = %q, want owner-1", session.CreatedBy)
	}
	if session.HostName != "alice" {
		t.Errorf("HostName = %q, want alice", session.HostName)
	}
	if session.Participants == nil || len(session.Participants) != 0 {
		t.Errorf("new session should start with an empty roster, got %v", session.Participants)
	}
	if len(session.Tags) != 2 || session.Tags[0] != "go" || session.Tags[1] != "programming" {
		t.Errorf("Tags = %v, want [go programming]", session.Tags)
	}
	if session.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if session.UpdatedAt != nil {
		t.Error("UpdatedAt should be unset on create")
	}
}

func TestCreateSessionUnknownHost(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()

	session, err := svc.Create(context.Background(), "ghost-uid", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.HostName != "Unknown" {
		t.Errorf("HostName = %q, want Unknown when the user record is missing", session.HostName)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SessionInput)
		field  string
	}{
		{"empty title", func(in *SessionInput) { in.Title = "   " }, "title"},
		{"empty description", func(in *SessionInput) { in.Description = "" }, "description"},
		{"missing date", func(in *SessionInput) { in.Date = "" }, "date"},
		{"missing time", func(in *SessionInput) { in.Time = "" }, "date"},
		{"malformed date", func(in *SessionInput) { in.Date = "not-a-date" }, "date"},
		{"zero capacity", func(in *SessionInput) { in.MaxParticipants = 0 }, "maxParticipants"},
		{"capacity over limit", func(in *SessionInput) { in.MaxParticipants = 51 }, "maxParticipants"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, "owner-1", in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	// None of the invalid inputs should have reached the store.
	all, _ := repo.List(ctx)
	if len(all) != 0 {
		t.Errorf("store should be empty after rejected creates, has %d sessions", len(all))
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersInMemory(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	repo.Put(&model.Session{Title: "Intro to Go", HostName: "alice", Category: model.CategoryTech, Difficulty: model.DifficultyBeginner})
	repo.Put(&model.Session{Title: "Watercolor Basics", HostName: "bob", Category: model.CategoryArt, Difficulty: model.DifficultyBeginner})

	got, err := svc.List(ctx, model.ListQuery{Category: "Tech"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Intro to Go" {
		t.Errorf("expected only the Tech session, got %d results", len(got))
	}
}

func TestUpdateSession(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validInput()
	in.Title = "Intro to Go, Second Edition"
	in.MaxParticipants = 8

	updated, err := svc.Update(ctx, created.ID, "owner-1", in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Intro to Go, Second Edition" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.MaxParticipants != 8 {
		t.Errorf("MaxParticipants = %d, want 8", updated.MaxParticipants)
	}
	if updated.UpdatedAt == nil {
		t.Error("UpdatedAt should be set after an edit")
	}
	if updated.CreatedBy != "owner-1" || updated.HostName != "alice" {
		t.Error("owner and host snapshot must survive an edit")
	}
}

func TestUpdateDoesNotClobberRoster(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// u1 joins between the editor's read and the store write. The edit
	// must not erase the join.
	repo.UpdateHook = func() {
		repo.AddParticipant(ctx, created.ID, "u1")
	}

	in := validInput()
	in.Title = "Intro to Go, Revised"
	updated, err := svc.Update(ctx, created.ID, "owner-1", in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Participants) != 1 || updated.Participants[0] != "u1" {
		t.Errorf("edit erased a concurrent join, Participants = %v", updated.Participants)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Title != "Intro to Go, Revised" {
		t.Errorf("Title = %q, edit was lost", stored.Title)
	}
	if len(stored.Participants) != 1 || stored.Participants[0] != "u1" {
		t.Errorf("stored Participants = %v, want [u1]", stored.Participants)
	}
}

func TestUpdateSessionForbidden(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())
	_, err := svc.Update(ctx, created.ID, "intruder", validInput())
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateSessionValidationBeforeWrite(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())

	in := validInput()
	in.Title = ""
	_, err := svc.Update(ctx, created.ID, "owner-1", in)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// The stored copy must be untouched by the rejected edit.
	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Title != "Intro to Go" {
		t.Errorf("stored title changed to %q after rejected edit", stored.Title)
	}
}

func TestUpdatePastSession(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	repo.Put(&model.Session{
		ID:              "past-1",
		Title:           "Yesterday's Workshop",
		CreatedBy:       "owner-1",
		Date:            time.Now().Add(-time.Hour),
		MaxParticipants: 5,
	})

	_, err := svc.Update(ctx, "past-1", "owner-1", validInput())
	if !errors.Is(err, ErrSessionPast) {
		t.Errorf("expected ErrSessionPast, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())

	if err := svc.Delete(ctx, created.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "owner-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestJoinSession(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())

	joined, err := svc.Join(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(joined.Participants) != 1 || joined.Participants[0] != "u1" {
		t.Errorf("Participants = %v, want [u1]", joined.Participants)
	}

	// Joining again is a no-op, not an error and not a duplicate.
	again, err := svc.Join(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("repeat Join: %v", err)
	}
	if len(again.Participants) != 1 {
		t.Errorf("repeat join duplicated the roster: %v", again.Participants)
	}
}

func TestJoinSessionOwner(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())
	if _, err := svc.Join(ctx, created.ID, "owner-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("owner joining own session: expected ErrForbidden, got %v", err)
	}
}

func TestJoinSessionFull(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	in := validInput()
	in.MaxParticipants = 1
	created, _ := svc.Create(ctx, "owner-1", in)

	if _, err := svc.Join(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := svc.Join(ctx, created.ID, "u2"); !errors.Is(err, ErrSessionFull) {
		t.Errorf("expected ErrSessionFull, got %v", err)
	}

	// u1 leaving frees the slot for u2.
	if _, err := svc.Leave(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	joined, err := svc.Join(ctx, created.ID, "u2")
	if err != nil {
		t.Fatalf("join after slot freed: %v", err)
	}
	if len(joined.Participants) != 1 || joined.Participants[0] != "u2" {
		t.Errorf("Participants = %v, want [u2]", joined.Participants)
	}
}

func TestJoinPastSession(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	repo.Put(&model.Session{
		ID:              "past-1",
		Title:           "Yesterday's Workshop",
		CreatedBy:       "owner-1",
		Date:            time.Now().Add(-time.Hour),
		MaxParticipants: 5,
	})

	if _, err := svc.Join(ctx, "past-1", "u1"); !errors.Is(err, ErrSessionPast) {
		t.Errorf("expected ErrSessionPast, got %v", err)
	}
}

func TestJoinWriteFailure(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())
	repo.AddErr = errors.New("write concern failed")

	if _, err := svc.Join(ctx, created.ID, "u1"); err == nil {
		t.Fatal("expected the store failure to surface")
	}
	repo.AddErr = nil
	stored, _ := repo.GetByID(ctx, created.ID)
	if len(stored.Participants) != 0 {
		t.Errorf("failed join must not change the roster, got %v", stored.Participants)
	}
}

func TestLeavePastSession(t *testing.T) {
	svc, repo, _ := newSessionServiceForTest()
	ctx := context.Background()

	repo.Put(&model.Session{
		ID:              "past-1",
		Title:           "Yesterday's Workshop",
		CreatedBy:       "owner-1",
		Date:            time.Now().Add(-time.Hour),
		MaxParticipants: 5,
		Participants:    []string{"u1"},
	})

	if _, err := svc.Leave(ctx, "past-1", "u1"); !errors.Is(err, ErrSessionPast) {
		t.Errorf("expected ErrSessionPast, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, "past-1")
	if len(stored.Participants) != 1 || stored.Participants[0] != "u1" {
		t.Errorf("roster of a past session changed: %v", stored.Participants)
	}
}

func TestLeaveSessionNotParticipant(t *testing.T) {
	svc, _, _ := newSessionServiceForTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "owner-1", validInput())
	left, err := svc.Leave(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("Leave for non-participant should be a no-op, got %v", err)
	}
	if len(left.Participants) != 0 {
		t.Errorf("Participants = %v, want empty", left.Participants)
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"go, web, api", []string{"go", "web", "api"}},
		{" go ,, web ", []string{"go", "web"}},
		{"", []string{}},
		{" , , ", []string{}},
	}
	for _, tt := range tests {
		got := SplitTags(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
