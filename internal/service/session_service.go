package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skillshare/internal/model"
	"skillshare/internal/repository"
)

// SessionInput carries the raw form fields for creating or editing a
// session. Date and Time arrive separately, as the original form collects
// them, and are combined into one instant.
type SessionInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Difficulty      string `json:"difficulty"`
	Date            string `json:"date"` // 2006-01-02
	Time            string `json:"time"` // 15:04
	Tags            string `json:"tags"` // comma-separated free text
	MaxParticipants int    `json:"maxParticipants"`
}

// SessionService owns the session lifecycle rules: creation, editing,
// deletion and roster membership, with ownership, capacity and past-date
// checks enforced here rather than at the client.
type SessionService struct {
	sessionRepo repository.SessionRepo
	userRepo    repository.UserRepo
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepo, userRepo repository.UserRepo) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Create validates the input and inserts a new session owned by uid, with
// an empty roster and the host's username snapshotted at creation time.
func (s *SessionService) Create(ctx context.Context, uid string, in SessionInput) (*model.Session, error) {
	title, description, date, max, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	hostName := "Unknown"
	if user, err := s.userRepo.GetByUID(ctx, uid); err == nil && user != nil {
		hostName = user.Username
	}

	session := &model.Session{
		Title:           title,
		Description:     description,
		Category:        model.NormalizeCategory(in.Category),
		Difficulty:      model.NormalizeDifficulty(in.Difficulty),
		Date:            date,
		Tags:            SplitTags(in.Tags),
		MaxParticipants: max,
		CreatedBy:       uid,
		HostName:        hostName,
		CreatedAt:       time.Now(),
		Participants:    []string{},
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.ID = id
	return session, nil
}

// Get fetches a session fresh from the store.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

// List fetches the whole collection and filters it in memory, preserving
// the store's order.
func (s *SessionService) List(ctx context.Context, q model.ListQuery) ([]*model.Session, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return model.FilterSessions(sessions, q), nil
}

// Update overwrites the mutable fields of a session the actor owns. The
// id, owner, creation time, host name snapshot and roster are untouched.
func (s *SessionService) Update(ctx context.Context, id, uid string, in SessionInput) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsOwner(uid) {
		return nil, ErrForbidden
	}
	if session.IsPast(time.Now()) {
		return nil, ErrSessionPast
	}

	title, description, date, max, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Title = title
	session.Description = description
	session.Category = model.NormalizeCategory(in.Category)
	session.Difficulty = model.NormalizeDifficulty(in.Difficulty)
	session.Date = date
	session.Tags = SplitTags(in.Tags)
	session.MaxParticipants = max
	session.UpdatedAt = &now

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	// The store only writes the editable fields, so re-read rather than
	// return the local snapshot: the roster may have changed underneath.
	return s.Get(ctx, id)
}

// Delete removes a session the actor owns. Irreversible; the explicit
// confirmation step lives at the transport layer.
func (s *SessionService) Delete(ctx context.Context, id, uid string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !session.IsOwner(uid) {
		return ErrForbidden
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Join adds uid to the roster via set-union, so a retried request cannot
// add a duplicate. Joining a session you are already on is a no-op. The
// returned state is re-read from the store after the write rather than
// patched locally.
func (s *SessionService) Join(ctx context.Context, id, uid string) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsOwner(uid) {
		return nil, ErrForbidden
	}
	if session.IsParticipant(uid) {
		return session, nil
	}
	if session.IsPast(time.Now()) {
		return nil, ErrSessionPast
	}
	if session.IsFull() {
		return nil, ErrSessionFull
	}

	if err := s.sessionRepo.AddParticipant(ctx, id, uid); err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}
	return s.Get(ctx, id)
}

// Leave removes uid from the roster via set-removal. Leaving a session you
// are not on is a no-op. Past sessions are read-only, same as join.
func (s *SessionService) Leave(ctx context.Context, id, uid string) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(uid) {
		return session, nil
	}
	if session.IsPast(time.Now()) {
		return nil, ErrSessionPast
	}

	if err := s.sessionRepo.RemoveParticipant(ctx, id, uid); err != nil {
		return nil, fmt.Errorf("failed to leave session: %w", err)
	}
	return s.Get(ctx, id)
}

// validate checks the required fields and returns the trimmed title and
// description, the combined date+time instant and the capacity.
func (s *SessionService) validate(in SessionInput) (string, string, time.Time, int, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", "", time.Time{}, 0, &ValidationError{Field: "title", Message: "required"}
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return "", "", time.Time{}, 0, &ValidationError{Field: "description", Message: "required"}
	}
	if in.Date == "" || in.Time == "" {
		return "", "", time.Time{}, 0, &ValidationError{Field: "date", Message: "date and time are required"}
	}
	date, err := time.ParseInLocation("2006-01-02T15:04", in.Date+"T"+in.Time, time.Local)
	if err != nil {
		return "", "", time.Time{}, 0, &ValidationError{Field: "date", Message: "not a valid date and time"}
	}
	if in.MaxParticipants < 1 || in.MaxParticipants > 50 {
		return "", "", time.Time{}, 0, &ValidationError{Field: "maxParticipants", Message: "must be between 1 and 50"}
	}
	return title, description, date, in.MaxParticipants, nil
}

// SplitTags turns comma-separated free text into a trimmed, empty-filtered
// tag list.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
