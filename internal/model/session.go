package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryTech     Category = "Tech"
	CategoryMusic    Category = "Music"
	CategoryBusiness Category = "Business"
	CategoryArt      Category = "Art"
	CategoryCooking  Category = "Cooking"
	CategoryFitness  Category = "Fitness"
	CategoryLanguage Category = "Language"
	CategoryOther    Category = "Other"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyExpert       Difficulty = "Expert"
)

// FilterAll is the sentinel that disables a category/difficulty filter.
const FilterAll = "All"

// Session is a scheduled skill-sharing slot with a fixed capacity and owner.
type Session struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	Title           string     `json:"title" bson:"title"`
	Description     string     `json:"description" bson:"description"`
	Category        Category   `json:"category" bson:"category"`
	Difficulty      Difficulty `json:"difficulty" bson:"difficulty"`
	Date            time.Time  `json:"date" bson:"date"`
	Tags            []string   `json:"tags" bson:"tags"`
	MaxParticipants int        `json:"maxParticipants" bson:"maxParticipants"`
	CreatedBy       string     `json:"createdBy" bson:"createdBy"`
	HostName        string     `json:"hostName" bson:"hostName"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Participants    []string   `json:"participants" bson:"participants"`
}

// NormalizeCategory maps unknown values to the default, matching the
// original form's silent fallback behavior.
func NormalizeCategory(v string) Category {
	switch Category(v) {
	case CategoryTech, CategoryMusic, CategoryBusiness, CategoryArt,
		CategoryCooking, CategoryFitness, CategoryLanguage, CategoryOther:
		return Category(v)
	}
	return CategoryTech
}

// NormalizeDifficulty maps unknown values to the default.
func NormalizeDifficulty(v string) Difficulty {
	switch Difficulty(v) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyExpert:
		return Difficulty(v)
	}
	return DifficultyBeginner
}

// IsOwner reports whether uid created the session.
func (s *Session) IsOwner(uid string) bool {
	return uid != "" && s.CreatedBy == uid
}

// IsParticipant reports whether uid is on the roster.
func (s *Session) IsParticipant(uid string) bool {
	for _, p := range s.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// IsFull reports whether the roster has reached capacity.
func (s *Session) IsFull() bool {
	return len(s.Participants) >= s.MaxParticipants
}

// IsPast reports whether the session date is before now.
func (s *Session) IsPast(now time.Time) bool {
	return s.Date.Before(now)
}

// CanJoin reports whether uid may join: not the owner, not already on the
// roster, session not full and not in the past.
func (s *Session) CanJoin(uid string, now time.Time) bool {
	return !s.IsOwner(uid) && !s.IsParticipant(uid) && !s.IsFull() && !s.IsPast(now)
}

// CanLeave reports whether uid may leave the roster. Past sessions are
// read-only: their membership can no longer change.
func (s *Session) CanLeave(uid string, now time.Time) bool {
	return s.IsParticipant(uid) && !s.IsOwner(uid) && !s.IsPast(now)
}

// ListQuery filters an in-memory session listing. Empty Category/Difficulty
// behave like the "All" sentinel.
type ListQuery struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// FilterSessions applies the three listing filters conjunctively, preserving
// the order the store returned.
func FilterSessions(sessions []*Session, q ListQuery) []*Session {
	search := strings.ToLower(q.Search)
	out := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Title), search) &&
			!strings.Contains(strings.ToLower(s.HostName), search) {
			continue
		}
		if q.Category != "" && q.Category != FilterAll && string(s.Category) != q.Category {
			continue
		}
		if q.Difficulty != "" && q.Difficulty != FilterAll && string(s.Difficulty) != q.Difficulty {
			continue
		}
		out = append(out, s)
	}
	return out
}
