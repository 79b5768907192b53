package utils

import (
	"testing"
)

type sample struct {
	Value      float64  `json:"estimated_value"`
	Confidence string   `json:"confidence_level"`
	Factors    []string `json:"analysis_factors"`
}

func TestDecodeModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{
			name:  "pure JSON",
			input: `{"estimated_value": 300000, "confidence_level": "high"}`,
			want:  300000,
		},
		{
			name:  "json fence",
			input: "```json\n{\"estimated_value\": 250000}\n```",
			want:  250000,
		},
		{
			name:  "bare fence",
			input: "```\n{\"estimated_value\": 150000}\n```",
			want:  150000,
		},
		{
			name:  "prose around JSON",
			input: `Based on my analysis: {"estimated_value": 410000, "confidence_level": "medium"} as requested.`,
			want:  410000,
		},
		{
			name:  "trailing comma",
			input: "```json\n{\"estimated_value\": 99000,}\n```",
			want:  99000,
		},
		{
			name:  "braces inside string values",
			input: `note: {"estimated_value": 500000, "confidence_level": "it's {tricky}"}`,
			want:  500000,
		},
		{
			name:    "no JSON at all",
			input:   "I cannot provide a valuation for this property.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			err := DecodeModelJSON(tt.input, &got)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeModelJSON error: %v", err)
			}
			if got.Value != tt.want {
				t.Errorf("Value = %.0f, want %.0f", got.Value, tt.want)
			}
		})
	}
}

func TestDecodeModelJSONArray(t *testing.T) {
	var got []string
	input := `The factors are ["location", "condition"] in order.`
	if err := DecodeModelJSON(input, &got); err != nil {
		t.Fatalf("DecodeModelJSON error: %v", err)
	}
	if len(got) != 2 || got[0] != "location" {
		t.Errorf("Got %v, want [location condition]", got)
	}
}

func TestDecodeModelJSONErrorPreviewTruncated(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	var got sample
	err := DecodeModelJSON(string(long), &got)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if len(err.Error()) > 200 {
		t.Errorf("Error message too long: %d chars", len(err.Error()))
	}
}
