package model

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func TestCompletionPercentage(t *testing.T) {
	rec := NewPreferenceRecord()

	if got := rec.CompletionPercentage(); got != 0 {
		t.Errorf("Expected 0%% for empty record, got %d%%", got)
	}

	rec.MarkComplete(TopicLocation)
	rec.MarkComplete(TopicBudget)
	rec.MarkComplete(TopicPropertyType)

	if got := rec.CompletionPercentage(); got != 50 {
		t.Errorf("Expected 50%% with 3 of 6 topics, got %d%%", got)
	}

	// Marking the same topic twice must not inflate progress
	rec.MarkComplete(TopicBudget)
	if got := rec.CompletionPercentage(); got != 50 {
		t.Errorf("Expected 50%% after duplicate mark, got %d%%", got)
	}
}

func TestApplyForm(t *testing.T) {
	tests := []struct {
		name       string
		form       FormPayload
		wantCities []string
		wantStates []string
		wantZips   []string
		wantTopics []Topic
	}{
		{
			name:       "city and state with budget",
			form:       FormPayload{Location: "Austin, TX", BudgetMin: intPtr(200000), BudgetMax: intPtr(400000)},
			wantCities: []string{"Austin"},
			wantStates: []string{"TX"},
			wantTopics: []Topic{TopicLocation, TopicBudget},
		},
		{
			name:       "bare zip code",
			form:       FormPayload{Location: "78701"},
			wantZips:   []string{"78701"},
			wantTopics: []Topic{TopicLocation},
		},
		{
			name:       "city with full state name",
			form:       FormPayload{Location: "Blacksburg, Virginia VA"},
			wantCities: []string{"Blacksburg"},
			wantStates: []string{"VA"},
			wantTopics: []Topic{TopicLocation},
		},
		{
			name:       "bare city",
			form:       FormPayload{Location: "Richmond"},
			wantCities: []string{"Richmond"},
			wantTopics: []Topic{TopicLocation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewPreferenceRecord()
			rec.ApplyForm(&tt.form)

			if len(rec.Location.Cities) != len(tt.wantCities) {
				t.Errorf("Cities = %v, want %v", rec.Location.Cities, tt.wantCities)
			}
			for i, c := range tt.wantCities {
				if rec.Location.Cities[i] != c {
					t.Errorf("Cities[%d] = %q, want %q", i, rec.Location.Cities[i], c)
				}
			}
			if len(rec.Location.States) != len(tt.wantStates) {
				t.Errorf("States = %v, want %v", rec.Location.States, tt.wantStates)
			}
			if len(rec.Location.ZipCodes) != len(tt.wantZips) {
				t.Errorf("ZipCodes = %v, want %v", rec.Location.ZipCodes, tt.wantZips)
			}
			for _, topic := range tt.wantTopics {
				if !rec.HasTopic(topic) {
					t.Errorf("Expected topic %s to be complete", topic)
				}
			}
			if len(rec.Completed) != len(tt.wantTopics) {
				t.Errorf("Completed %d topics, want %d: %v", len(rec.Completed), len(tt.wantTopics), rec.CompletedTopics())
			}
		})
	}
}

func TestApplyFormStrategyMapping(t *testing.T) {
	tests := []struct {
		goal string
		want InvestmentStrategy
	}{
		{"primary-residence", StrategyBuyAndHold},
		{"fix-flip", StrategyFixAndFlip},
		{"rental-property", StrategyBuyAndHold},
		{"multi-family", StrategyBuyAndHold},
		{"quick-deals", StrategyWholesale},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			rec := NewPreferenceRecord()
			rec.ApplyForm(&FormPayload{PropertyTypes: []string{tt.goal}})

			if len(rec.Financial.InvestmentStrategies) != 1 || rec.Financial.InvestmentStrategies[0] != tt.want {
				t.Errorf("Strategies = %v, want [%s]", rec.Financial.InvestmentStrategies, tt.want)
			}
			if !rec.HasTopic(TopicInvestmentStrategy) {
				t.Error("Expected investment_strategy topic to be complete")
			}
		})
	}

	// Unrecognized tokens map to no strategy
	rec := NewPreferenceRecord()
	rec.ApplyForm(&FormPayload{PropertyTypes: []string{"moon-base"}})
	if len(rec.Financial.InvestmentStrategies) != 0 {
		t.Errorf("Expected no strategy for unknown token, got %v", rec.Financial.InvestmentStrategies)
	}
}

func TestAddCityDeduplicates(t *testing.T) {
	rec := NewPreferenceRecord()
	rec.AddCity("Richmond")
	rec.AddCity("richmond")
	rec.AddCity("RICHMOND")

	if len(rec.Location.Cities) != 1 {
		t.Errorf("Expected 1 city after case-insensitive dedupe, got %v", rec.Location.Cities)
	}
}

func TestToSearchCriteriaFirstWins(t *testing.T) {
	rec := NewPreferenceRecord()
	rec.AddCity("Richmond")
	rec.AddCity("Norfolk")
	rec.AddState("VA")
	rec.AddState("NC")
	rec.AddZipCode("23220")
	rec.AddZipCode("23510")

	c := rec.ToSearchCriteria()

	if c.City != "Richmond" {
		t.Errorf("City = %q, want first city Richmond", c.City)
	}
	if c.State != "VA" {
		t.Errorf("State = %q, want first state VA", c.State)
	}
	if c.ZipCode != "23220" {
		t.Errorf("ZipCode = %q, want first zip 23220", c.ZipCode)
	}
}

func TestHasLocation(t *testing.T) {
	rec := NewPreferenceRecord()
	if rec.HasLocation() {
		t.Error("Empty record should have no location")
	}

	rec.AddZipCode("24060")
	if !rec.HasLocation() {
		t.Error("Record with zip should have a location")
	}
}
