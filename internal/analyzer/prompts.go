package analyzer

import "strings"

// systemPromptJSON is the fixed system instruction for every analyzer call.
// The response is still treated as free-form text; extraction handles the
// services that ignore the instruction.
const systemPromptJSON = "You are a conversation analyst. Respond only with a single JSON object. No prose, no markdown fences."

const driftPromptTemplate = `The user's stated goal is: "{{goal}}"

Recent conversation:
{{transcript}}

Judge whether the conversation has drifted away from the goal.
Respond with JSON:
{"isDrifting": true|false, "reason": "<one sentence>", "suggestion": "<one sentence steering the user back, empty if not drifting>"}`

const insightPromptTemplate = `The user's stated goal is: "{{goal}}"

Recent conversation:
{{transcript}}

Detect whether a meaningful insight has just emerged. Insight types:
convergence, breakthrough, connection, clarification, pivot.
Respond with JSON:
{"hasInsight": true|false, "type": "<type>", "title": "<short title>", "description": "<one or two sentences>", "confidence": 0.0-1.0, "crystallization": 0.0-1.0, "suggestedActions": ["<action>", ...]}`

const actionPromptTemplate = `Recent conversation:
{{transcript}}

Extract concrete action items the user should follow up on.
Respond with JSON:
{"actionItems": [{"text": "<imperative phrase>", "priority": "high"|"medium"|"low"}]}`

const unifiedPromptTemplate = `The user's stated goal is: "{{goal}}"

Recent conversation:
{{transcript}}

Analyze the conversation for goal drift, emerging insights, and action items in one pass.
Respond with JSON:
{"drift": {"isDrifting": true|false, "reason": "<one sentence>", "suggestion": "<one sentence>"},
 "insight": {"hasInsight": true|false, "type": "<convergence|breakthrough|connection|clarification|pivot>", "title": "<short>", "description": "<short>", "confidence": 0.0-1.0, "crystallization": 0.0-1.0},
 "actionItems": [{"text": "<imperative phrase>", "priority": "high"|"medium"|"low"}]}`

// buildPrompt substitutes {{goal}} and {{transcript}} placeholders.
func buildPrompt(template, goal, excerpt string) string {
	out := strings.ReplaceAll(template, "{{goal}}", goal)
	out = strings.ReplaceAll(out, "{{transcript}}", excerpt)
	return out
}
