package service

import (
	"context"
	"log"
	"time"

	"core/internal/model"
)

// searchTimeout bounds one background property search end to end
const searchTimeout = 90 * time.Second

// SearchDispatcher runs property searches in the background and delivers the
// ranked results back into the originating chat session.
type SearchDispatcher struct {
	finder     *PropertyFinder
	ranker     *DealRanker
	chat       *ChatService
	maxResults int
}

// NewSearchDispatcher wires the dispatcher into the chat service
func NewSearchDispatcher(finder *PropertyFinder, ranker *DealRanker, chat *ChatService, maxResults int) *SearchDispatcher {
	if maxResults <= 0 {
		maxResults = 10
	}
	d := &SearchDispatcher{
		finder:     finder,
		ranker:     ranker,
		chat:       chat,
		maxResults: maxResults,
	}
	chat.SetDispatcher(d)
	return d
}

// Dispatch launches the search asynchronously; the session's results arrive
// via ChatService.ReceiveResults once the search completes.
func (d *SearchDispatcher) Dispatch(ctx context.Context, payload *model.HandoffPayload) error {
	go d.run(payload)
	return nil
}

func (d *SearchDispatcher) run(payload *model.HandoffPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	log.Printf("🔎 Searching properties for session %s (%s)", payload.SessionID, locationLabel(&payload.Criteria))

	results, err := d.finder.FindByLocation(ctx, &payload.Criteria, d.maxResults)
	if err != nil {
		log.Printf("⚠️  Property search failed for session %s: %v", payload.SessionID, err)
		results = nil
	}

	d.ranker.Rank(results, &payload.Criteria)

	if _, ok := d.chat.ReceiveResults(ctx, payload.SessionID, results); !ok {
		log.Printf("⚠️  Session %s vanished before results were delivered", payload.SessionID)
		return
	}
	log.Printf("✅ Delivered %d ranked properties to session %s", len(results), payload.SessionID)
}

func locationLabel(c *model.SearchCriteria) string {
	if c.ZipCode != "" {
		return "ZIP " + c.ZipCode
	}
	if c.City != "" && c.State != "" {
		return c.City + ", " + c.State
	}
	return "unspecified location"
}
