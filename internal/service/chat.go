package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"core/internal/config"
	"core/internal/model"
)

// HandoffDispatcher forwards a ready session's criteria to the property
// search collaborator
type HandoffDispatcher interface {
	Dispatch(ctx context.Context, payload *model.HandoffPayload) error
}

// LeadRecorder persists the qualified-lead audit trail. Implementations must
// tolerate being skipped entirely when persistence is disabled.
type LeadRecorder interface {
	RecordHandoff(ctx context.Context, payload *model.HandoffPayload) error
	RecordResults(ctx context.Context, sessionID string, count int) error
}

// ChatService owns the conversational state machine: it runs extraction and
// segment classification on every turn, evaluates the readiness predicate,
// and drives phase transitions. Collaborator failures never block a
// transition; replies degrade to deterministic fallbacks.
type ChatService struct {
	registry   *SessionRegistry
	extractor  *Extractor
	classifier *SegmentClassifier
	generator  Generator
	dispatcher HandoffDispatcher
	leads      LeadRecorder
	cfg        *config.SessionConfig

	summaryTopN int
}

// NewChatService wires the chat service. The dispatcher is attached later via
// SetDispatcher because it needs the service to deliver results back.
func NewChatService(
	registry *SessionRegistry,
	extractor *Extractor,
	classifier *SegmentClassifier,
	generator Generator,
	leads LeadRecorder,
	cfg *config.SessionConfig,
	summaryTopN int,
) *ChatService {
	if summaryTopN <= 0 {
		summaryTopN = 5
	}
	return &ChatService{
		registry:    registry,
		extractor:   extractor,
		classifier:  classifier,
		generator:   generator,
		leads:       leads,
		cfg:         cfg,
		summaryTopN: summaryTopN,
	}
}

// SetDispatcher attaches the search dispatcher
func (s *ChatService) SetDispatcher(d HandoffDispatcher) {
	s.dispatcher = d
}

// StartSession creates a session, optionally pre-populated from the intake
// form, and returns it with an opening greeting.
func (s *ChatService) StartSession(userID string, form *model.FormPayload) (*ChatSession, string) {
	session := NewChatSession(userID, form)
	s.registry.Put(session)

	greeting := "Hi! I'm here to help you find great property opportunities. Tell me a bit about what you're looking for."
	if prefilled := describeForm(form); prefilled != "" {
		greeting = fmt.Sprintf("Hi! Thanks for sharing your preferences (%s). Tell me a bit more about what you're looking for and I'll find properties that fit.", prefilled)
	}

	log.Printf("💬 Started chat session %s (progress %d%%)", session.ID, session.Preferences.CompletionPercentage())
	return session, greeting
}

// SendMessage processes one user turn. Unknown sessions short-circuit with a
// restart prompt instead of an error.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, text string) *model.MessageResponse {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		log.Printf("⚠️  Message for unknown session %s", sessionID)
		return &model.MessageResponse{
			SessionID: sessionID,
			Reply:     restartPrompt,
		}
	}

	session.Lock()
	defer session.Unlock()

	session.AddMessage("user", text)

	var reply string
	if session.Phase == PhaseGreeting {
		reply = s.handleGreeting(ctx, session, text)
	} else {
		reply = s.handleConversation(ctx, session, text)
	}

	session.AddMessage("assistant", reply)

	return &model.MessageResponse{
		SessionID:  session.ID,
		Reply:      reply,
		Phase:      string(session.Phase),
		Segment:    string(session.Segment),
		IsComplete: session.Preferences.IsComplete,
		Progress:   session.Preferences.CompletionPercentage(),
	}
}

// generate asks the chat model for a reply; with no generator configured it
// reports failure so callers fall back.
func (s *ChatService) generate(ctx context.Context, prompt string) Generation {
	if s.generator == nil {
		return Generation{FailureReason: "no generator configured"}
	}
	return s.generator.Generate(ctx, prompt)
}

// handleGreeting runs the first turn: classify the user, respond in context,
// and move to free-form conversation.
func (s *ChatService) handleGreeting(ctx context.Context, session *ChatSession, text string) string {
	session.Segment = s.classifier.Classify(text, session.Transcript)
	session.Phase = PhaseInConversation

	prompt := buildGreetingPrompt(
		session.Segment,
		session.ConversationContext(s.cfg.HistoryWindow),
		text,
		describeForm(session.Form),
	)
	if gen := s.generate(ctx, prompt); gen.OK() {
		return gen.Text
	}
	return fallbackGreeting()
}

// handleConversation runs extraction and either continues the conversation or
// hands off to search once the readiness predicate holds.
func (s *ChatService) handleConversation(ctx context.Context, session *ChatSession, text string) string {
	if segment := s.classifier.Classify(text, session.Transcript); segment != model.SegmentUnknown {
		session.Segment = segment
	}

	s.extractor.Extract(session.Preferences, text)

	if session.Phase == PhaseInConversation && session.Ready() {
		return s.handleHandoff(ctx, session, text)
	}

	prompt := buildConversationPrompt(
		session.Segment,
		session.ConversationContext(s.cfg.HistoryWindow),
		text,
		session.Preferences.Summary(),
	)
	if gen := s.generate(ctx, prompt); gen.OK() {
		return gen.Text
	}
	return fallbackConversation()
}

// handleHandoff freezes the record, dispatches the search, and produces the
// summary reply. The transition completes even when generation or dispatch
// fails.
func (s *ChatService) handleHandoff(ctx context.Context, session *ChatSession, text string) string {
	session.Preferences.IsComplete = true
	session.Phase = PhaseAwaitingHandoff
	session.AwaitingHandoff = true

	payload := session.HandoffPayload()
	log.Printf("🔎 Handing off session %s to property search (criteria: %s)", session.ID, describeCriteria(payload.Criteria))

	if s.leads != nil {
		if err := s.leads.RecordHandoff(ctx, payload); err != nil {
			log.Printf("⚠️  Failed to record handoff for session %s: %v", session.ID, err)
		}
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
			log.Printf("⚠️  Search dispatch failed for session %s: %v", session.ID, err)
			session.AwaitingHandoff = false
		}
	}

	prompt := buildSummaryPrompt(
		session.ConversationContext(s.cfg.HistoryWindow),
		text,
		session.Preferences.Summary(),
	)
	if gen := s.generate(ctx, prompt); gen.OK() {
		return gen.Text
	}
	return fallbackSummary(session.Preferences.Summary())
}

// ReceiveResults stores a fresh result set (replacing any prior one) and
// produces the results reply. An empty list produces the distinct
// no-results/broaden response.
func (s *ChatService) ReceiveResults(ctx context.Context, sessionID string, results []model.PropertyResult) (string, bool) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		log.Printf("⚠️  Results for unknown session %s", sessionID)
		return "I'm sorry, I couldn't find your search session. Please start a new search.", false
	}

	session.Lock()
	defer session.Unlock()

	session.AwaitingHandoff = false

	if s.leads != nil {
		if err := s.leads.RecordResults(ctx, sessionID, len(results)); err != nil {
			log.Printf("⚠️  Failed to record result count for session %s: %v", sessionID, err)
		}
	}

	var reply string
	if len(results) == 0 {
		// Results always replace the previous set; an empty round clears it
		session.Results = nil
		session.Phase = PhaseInConversation
		if gen := s.generate(ctx, buildNoResultsPrompt(session.Preferences)); gen.OK() {
			reply = gen.Text
		} else {
			reply = fallbackNoResults()
		}
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DealScore > results[j].DealScore
		})
		session.Results = results
		session.Phase = PhaseHandoffComplete

		top := results
		if len(top) > s.summaryTopN {
			top = top[:s.summaryTopN]
		}
		log.Printf("✅ Session %s received %d properties (summarizing top %d)", sessionID, len(results), len(top))

		prompt := buildResultsPrompt(session.ConversationContext(s.cfg.HistoryWindow), session.Preferences, top)
		if gen := s.generate(ctx, prompt); gen.OK() {
			reply = gen.Text
		} else {
			reply = fallbackResultsSummary(top)
		}
	}

	session.AddMessage("assistant", reply)
	return reply, true
}

// Refine applies direct criteria replacements and re-dispatches the search
func (s *ChatService) Refine(ctx context.Context, sessionID string, mods *model.CriteriaModifications) (string, bool) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return "Session not found. Please start a new search.", false
	}

	session.Lock()
	defer session.Unlock()

	if mods != nil {
		applyModifications(session.Preferences, mods)
	}

	session.Phase = PhaseAwaitingHandoff
	session.AwaitingHandoff = true
	payload := session.HandoffPayload()

	if s.leads != nil {
		if err := s.leads.RecordHandoff(ctx, payload); err != nil {
			log.Printf("⚠️  Failed to record handoff for session %s: %v", session.ID, err)
		}
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
			log.Printf("⚠️  Search dispatch failed for session %s: %v", session.ID, err)
			session.AwaitingHandoff = false
		}
	}

	session.Touch()
	return refineAck, true
}

// Status returns a snapshot of session progress
func (s *ChatService) Status(sessionID string) (*model.SessionStatus, bool) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, false
	}
	session.Lock()
	defer session.Unlock()
	return session.Status(), true
}

// EndSession removes a session and reports whether it existed
func (s *ChatService) EndSession(sessionID string) bool {
	if s.registry.Delete(sessionID) {
		log.Printf("👋 Ended chat session %s", sessionID)
		return true
	}
	return false
}

// applyModifications replaces supplied fields wholesale; absent fields are
// untouched
func applyModifications(prefs *model.PreferenceRecord, mods *model.CriteriaModifications) {
	if mods.Cities != nil {
		prefs.Location.Cities = mods.Cities
	}
	if mods.States != nil {
		prefs.Location.States = mods.States
	}
	if mods.MinPrice != nil {
		prefs.Financial.MinPrice = mods.MinPrice
	}
	if mods.MaxPrice != nil {
		prefs.Financial.MaxPrice = mods.MaxPrice
	}
	if mods.MinBedrooms != nil {
		prefs.Property.MinBedrooms = mods.MinBedrooms
	}
	if mods.MaxBedrooms != nil {
		prefs.Property.MaxBedrooms = mods.MaxBedrooms
	}
	if mods.MinBathrooms != nil {
		prefs.Property.MinBathrooms = mods.MinBathrooms
	}
	if mods.MinSqft != nil {
		prefs.Property.MinSqft = mods.MinSqft
	}
	if mods.PropertyTypes != nil {
		prefs.Property.PropertyTypes = mods.PropertyTypes
	}
}

// describeForm renders a short human-readable account of form input
func describeForm(form *model.FormPayload) string {
	if form == nil {
		return ""
	}
	parts := []string{}
	if form.Location != "" {
		parts = append(parts, "location: "+form.Location)
	}
	if len(form.PropertyTypes) > 0 {
		parts = append(parts, "property types: "+strings.Join(form.PropertyTypes, ", "))
	}
	if form.BudgetMin != nil || form.BudgetMax != nil {
		lo, hi := 0, 0
		if form.BudgetMin != nil {
			lo = *form.BudgetMin
		}
		if form.BudgetMax != nil {
			hi = *form.BudgetMax
		}
		parts = append(parts, fmt.Sprintf("budget: $%d - $%d", lo, hi))
	}
	return strings.Join(parts, ", ")
}

func describeCriteria(c model.SearchCriteria) string {
	parts := []string{}
	if c.City != "" {
		parts = append(parts, c.City)
	}
	if c.State != "" {
		parts = append(parts, c.State)
	}
	if c.ZipCode != "" {
		parts = append(parts, c.ZipCode)
	}
	if c.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max $%d", *c.MaxPrice))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
