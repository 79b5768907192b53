package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"core/internal/model"
)

// Prompt builders for the conversational replies. Each has a deterministic
// fallback used when the generation collaborator fails.

func buildGreetingPrompt(segment model.UserSegment, context, message, prefilled string) string {
	prefilledNote := ""
	if prefilled != "" {
		prefilledNote = fmt.Sprintf("\nIMPORTANT: The user has already provided some preferences through a form: %s. Acknowledge this information naturally and build on it rather than asking for it again.\n", prefilled)
	}

	return fmt.Sprintf(`You are a friendly, knowledgeable real estate assistant having a conversation with someone who seems to be a %s.

CONVERSATION HISTORY:
%s

CURRENT MESSAGE: "%s"
%s
Respond naturally to what they actually said, acknowledging the conversation flow.
Don't use templates or cookie-cutter responses. Build on their specific words and situation.
Ask thoughtful follow-up questions based on what they've shared.

Keep it human, warm, and genuinely helpful. Avoid sounding like a form or questionnaire.`,
		segmentLabel(segment), context, message, prefilledNote)
}

func buildConversationPrompt(segment model.UserSegment, context, message, knownInfo string) string {
	return fmt.Sprintf(`You are having a natural conversation about real estate with someone who is a %s.

FULL CONVERSATION HISTORY:
%s

CURRENT MESSAGE: "%s"

WHAT YOU KNOW SO FAR: %s

This is an ongoing conversation. Reference previous messages and build on what was discussed.
Ask follow-up questions that feel organic to the conversation flow.
If they seem ready to see some properties, offer to search for them.

Be human, warm, and genuinely helpful. Avoid bullet points or formal structures unless they ask for them.`,
		segmentLabel(segment), context, message, knownInfo)
}

func buildSummaryPrompt(context, message, summary string) string {
	return fmt.Sprintf(`You are wrapping up a conversation about real estate preferences and preparing to search for properties.

FULL CONVERSATION HISTORY:
%s

CURRENT MESSAGE: "%s"

COLLECTED PREFERENCES:
%s

Create a friendly, personalized summary that:
1. Acknowledges their current message
2. References key things they told you during the conversation
3. Summarizes their preferences in a natural, conversational way
4. Lets them know you're now searching for matching properties

Be enthusiastic and personal.`, context, message, summary)
}

func buildNoResultsPrompt(prefs *model.PreferenceRecord) string {
	return fmt.Sprintf(`No undervalued properties were found matching the user's criteria.

User preferences: %s

Provide an encouraging response suggesting:
1. Expanding search criteria (different areas, price range, property types)
2. Setting up alerts for when new properties become available
3. Adjusting expectations or strategy

Be supportive and offer to help modify their search.`, prefs.Summary())
}

func buildResultsPrompt(context string, prefs *model.PreferenceRecord, top []model.PropertyResult) string {
	encoded, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		encoded = []byte("[]")
	}

	return fmt.Sprintf(`Create an enthusiastic, personalized summary of the best undervalued investment properties found for the user.

CONVERSATION HISTORY:
%s

User's preferences: %s

Top properties found:
%s

Create a summary that:
1. Celebrates finding great deals based on their specific situation
2. Highlights the top properties with key details
3. Mentions deal scores and why each one matches their needs
4. Encourages next steps (viewing, making offers)

Use bullet points and clear formatting. Be enthusiastic but professional.`,
		context, prefs.Summary(), string(encoded))
}

func segmentLabel(segment model.UserSegment) string {
	switch segment {
	case model.SegmentInvestor:
		return "real estate investor"
	case model.SegmentAgent:
		return "real estate professional"
	case model.SegmentNewBuyer:
		return "homebuyer"
	default:
		return "prospective buyer"
	}
}

// Deterministic fallbacks; the state machine must never stall on a
// collaborator failure.

func fallbackGreeting() string {
	return "Hi there! I'd love to help you find some great property opportunities. What kind of situation are you in right now?"
}

func fallbackConversation() string {
	return "That's interesting! Tell me more about what you're thinking."
}

func fallbackSummary(summary string) string {
	return fmt.Sprintf(`Perfect! Here's what I have for your property search:

• %s

I'm now searching for undervalued properties that match your criteria. Give me a moment to analyze the market and find some great deals... 🏠`, summary)
}

func fallbackNoResults() string {
	return `I wasn't able to find any properties matching your exact criteria right now, but don't worry - this is actually pretty common in competitive markets!

Here are a few options to consider:

🔍 **Expand Your Search:**
• Consider nearby areas or different neighborhoods
• Adjust your price range slightly higher or lower
• Look at different property types (condos, townhouses, small multi-family)

Would you like me to search with broader criteria, or would you prefer to modify any of your preferences?`
}

func fallbackResultsSummary(top []model.PropertyResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **Great news! I found %d investment properties matching your criteria!**\n\n", len(top))

	for i, prop := range top {
		address := prop.Address
		if address == "" {
			address = "Address not available"
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, address)

		price := 0.0
		if prop.ListingPrice != nil {
			price = *prop.ListingPrice
		}
		fmt.Fprintf(&b, "   💰 Price: $%.0f | Deal Score: %.0f/100\n", price, prop.DealScore)

		if prop.FairValueEstimate != nil {
			fmt.Fprintf(&b, "   📊 Fair Value Estimate: $%.0f\n", *prop.FairValueEstimate)
		}
		b.WriteString("\n")
	}

	b.WriteString("Would you like more details on any of these, or should I search with different criteria?")
	return b.String()
}

const restartPrompt = "I'm sorry, I couldn't find your conversation session. Let's start fresh! What can I help you with today?"

const refineAck = "I'm searching for more properties with your updated criteria. Give me a moment to find some great deals for you!"
