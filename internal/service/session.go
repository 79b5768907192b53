package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"core/internal/model"

	"github.com/google/uuid"
)

// Phase is the coarse conversation phase of a session
type Phase string

const (
	PhaseGreeting        Phase = "greeting"
	PhaseInConversation  Phase = "in_conversation"
	PhaseAwaitingHandoff Phase = "awaiting_handoff"
	PhaseHandoffComplete Phase = "handoff_complete"
)

// ChatSession is one active conversation. It exclusively owns its preference
// record and transcript; all mutation happens under mu, so each session
// processes its turns strictly sequentially. The activity timestamp lives
// outside the lock so the registry sweeper can read it without blocking on
// an in-flight turn.
type ChatSession struct {
	mu sync.Mutex

	ID              string
	UserID          string
	Form            *model.FormPayload
	Preferences     *model.PreferenceRecord
	Transcript      []model.TranscriptEntry
	Phase           Phase
	Segment         model.UserSegment
	Results         []model.PropertyResult
	AwaitingHandoff bool
	CreatedAt       time.Time

	lastActivity atomic.Int64 // unix nanos
}

// NewChatSession creates a session in the greeting phase, optionally
// pre-populated from a structured form payload
func NewChatSession(userID string, form *model.FormPayload) *ChatSession {
	now := time.Now()
	session := &ChatSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		Form:        form,
		Preferences: model.NewPreferenceRecord(),
		Transcript:  []model.TranscriptEntry{},
		Phase:       PhaseGreeting,
		Segment:     model.SegmentUnknown,
		CreatedAt:   now,
	}
	session.lastActivity.Store(now.UnixNano())
	session.Preferences.ApplyForm(form)
	return session
}

// Lock serializes turn processing for this session
func (s *ChatSession) Lock() { s.mu.Lock() }

// Unlock releases the turn lock
func (s *ChatSession) Unlock() { s.mu.Unlock() }

// AddMessage appends to the transcript; entries are never mutated in place
func (s *ChatSession) AddMessage(role, text string) {
	s.Transcript = append(s.Transcript, model.TranscriptEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
	s.Touch()
}

// Touch refreshes the activity timestamp. Safe to call concurrently with
// LastActivity.
func (s *ChatSession) Touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// LastActivity returns when the session last processed a turn
func (s *ChatSession) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// Ready reports whether enough is known to hand off to search: at least one
// location fact plus at least two completed topics.
func (s *ChatSession) Ready() bool {
	return s.Preferences.HasLocation() && len(s.Preferences.Completed) >= 2
}

// HandoffPayload snapshots the session for dispatch to the property finder
func (s *ChatSession) HandoffPayload() *model.HandoffPayload {
	return &model.HandoffPayload{
		SessionID:   s.ID,
		Preferences: s.Preferences,
		Criteria:    s.Preferences.ToSearchCriteria(),
		Timestamp:   time.Now(),
	}
}

// ConversationContext renders the last n transcript entries for prompting
func (s *ChatSession) ConversationContext(lastN int) string {
	entries := s.Transcript
	if len(entries) > lastN {
		entries = entries[len(entries)-lastN:]
	}
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s: %s\n", entry.Role, entry.Text)
	}
	return b.String()
}

// Status snapshots session progress for the status endpoint
func (s *ChatSession) Status() *model.SessionStatus {
	return &model.SessionStatus{
		SessionID:       s.ID,
		Phase:           string(s.Phase),
		Segment:         string(s.Segment),
		Progress:        s.Preferences.CompletionPercentage(),
		CompletedTopics: s.Preferences.CompletedTopics(),
		IsComplete:      s.Preferences.IsComplete,
		AwaitingHandoff: s.AwaitingHandoff,
		MessageCount:    len(s.Transcript),
		ResultCount:     len(s.Results),
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		LastActivity:    s.LastActivity().Format(time.RFC3339),
	}
}
