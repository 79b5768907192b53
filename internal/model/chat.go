package model

// StartSessionRequest begins a new chat session, optionally pre-populated from
// the intake form
type StartSessionRequest struct {
	UserID string       `json:"user_id,omitempty"`
	Form   *FormPayload `json:"form,omitempty"`
}

// StartSessionResponse carries the new session handle and opening message
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

// MessageRequest is one user turn in an existing session
type MessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// MessageResponse is the assistant's reply for one turn
type MessageResponse struct {
	SessionID  string `json:"session_id"`
	Reply      string `json:"reply"`
	Phase      string `json:"phase"`
	Segment    string `json:"segment"`
	IsComplete bool   `json:"is_complete"`
	Progress   int    `json:"progress_percentage"`
}

// ResultsRequest delivers finder results back into a session
type ResultsRequest struct {
	SessionID  string           `json:"session_id" binding:"required"`
	Properties []PropertyResult `json:"properties"`
}

// ResultsResponse carries the results summary reply
type ResultsResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Count     int    `json:"count"`
}

// CriteriaModifications are direct field replacements applied before a
// re-search; supplied keys replace, absent keys leave prior values intact
type CriteriaModifications struct {
	Cities        []string       `json:"cities,omitempty"`
	States        []string       `json:"states,omitempty"`
	MinPrice      *int           `json:"min_price,omitempty"`
	MaxPrice      *int           `json:"max_price,omitempty"`
	MinBedrooms   *int           `json:"min_bedrooms,omitempty"`
	MaxBedrooms   *int           `json:"max_bedrooms,omitempty"`
	MinBathrooms  *float64       `json:"min_bathrooms,omitempty"`
	MinSqft       *int           `json:"min_sqft,omitempty"`
	PropertyTypes []PropertyType `json:"property_types,omitempty"`
}

// RefineRequest asks for another search with modified criteria
type RefineRequest struct {
	SessionID     string                 `json:"session_id" binding:"required"`
	Modifications *CriteriaModifications `json:"modifications,omitempty"`
}

// SessionStatus is a point-in-time view of a session's progress
type SessionStatus struct {
	SessionID       string   `json:"session_id"`
	Phase           string   `json:"phase"`
	Segment         string   `json:"segment"`
	Progress        int      `json:"progress_percentage"`
	CompletedTopics []string `json:"completed_topics"`
	IsComplete      bool     `json:"is_complete"`
	AwaitingHandoff bool     `json:"awaiting_handoff"`
	MessageCount    int      `json:"message_count"`
	ResultCount     int      `json:"result_count"`
	CreatedAt       string   `json:"created_at"`
	LastActivity    string   `json:"last_activity"`
}

// SearchRequest is a direct property search without a chat session
type SearchRequest struct {
	Criteria SearchCriteria `json:"criteria"`
	Limit    int            `json:"limit,omitempty"`
}

// SearchResponse carries ranked, valued listings
type SearchResponse struct {
	Properties []PropertyResult `json:"properties"`
	Count      int              `json:"count"`
}

// FeedbackRequest records a lead action against a session
type FeedbackRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Address   string `json:"address,omitempty"`
	Action    string `json:"action" binding:"required"`
}

// FeedbackResponse acknowledges recorded feedback
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
