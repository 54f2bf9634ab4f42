package chat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kisanmitra/server/internal/model"
)

// leadingMarkup matches enumeration prefixes the title model sometimes adds
// despite being told not to ("1.", "- ", "* ").
var leadingMarkup = regexp.MustCompile(`^[\d.\-*\s]+`)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// buildSystemInstruction creates the advisor persona tailored to the
// farmer's profile. Incomplete profiles get a generic framing instead of
// fabricated farm details.
func buildSystemInstruction(user model.User) string {
	context := "User is interested in farming but details are incomplete."
	if deref(user.HasFarm) == "yes" {
		context = fmt.Sprintf(`FARMER PROFILE:
- Name: %s
- Has Farm: %s
- Water Supply: %s
- Farm Type: %s`,
			user.FullName, deref(user.HasFarm), deref(user.WaterSupply), deref(user.FarmType))
	}

	return fmt.Sprintf(`You are an expert Indian Agricultural AI Advisor (Kisan Mitra).

YOUR GOAL: Provide specific, actionable, and region-aware farming advice.

CONTEXT:
%s

GUIDELINES:
1. STRICTLY AVOID GENERIC DATES. If asked about sowing/harvesting, DO NOT say "June to July".
   Instead, ask for the user's District/State if you don't know it, then give specific windows like "First 2 weeks of June for [Region Name]".
2. USE FARMER'S CONTEXT: If they have 'well' water, suggest irrigation methods suitable for wells.
3. LANGUAGE: Answer in the same language the user asks (mostly Hinglish or English).
4. TONE: Professional, respectful, yet simple (like an experienced agronomist).
5. FORMATTING: Use bullet points for steps.`, context)
}

// titlePrompt asks for a short raw-text summary of the user's first query.
func titlePrompt(content string) string {
	return fmt.Sprintf(`Summarize this into a 3-5 word title.
RULES:
1. Do NOT use numbering (e.g., no "1.", no "-").
2. Do NOT use quotes.
3. Just output the raw words.

Query: %s`, content)
}

// cleanTitle strips enumeration markup and quote characters from a
// generated title. Returns "" when nothing usable remains.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = leadingMarkup.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, `"`, "")
	title = strings.ReplaceAll(title, "'", "")
	return strings.TrimSpace(title)
}
