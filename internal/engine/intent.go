package engine

import (
	"strings"
	"unicode"
)

// Action tells the caller which outcome screen to open.
type Action string

const (
	ActionNone         Action = ""
	ActionShowHighRisk Action = "SHOW_HIGH_RISK"
	ActionShowLowRisk  Action = "SHOW_LOW_RISK"
)

// Canned replies.
const (
	GreetingText = "Hello there! How can I help you today?"
	HelpText     = "I can explain online banking, staying safe from scams and phishing, passwords and OTPs, sending money, paying bills, and how your Trusted Guardian and Kalasag mode protect you. Just ask!"
	HighRiskText = "This looks like an unusual transaction. For your safety it has been paused and your Trusted Guardian has been alerted."
	LowRiskText  = "Your payment was successful. The transaction was completed."
	FallbackText = "I'm sorry, I don't have an answer for that yet. You can ask me about online banking, scams, OTPs, sending money, or your Trusted Guardian."
	WelcomeText  = "Hello! How can I assist you today?"
)

// BotResponse is the engine's answer to one user input.
type BotResponse struct {
	Text   string `json:"text,omitempty"`
	Action Action `json:"action,omitempty"`
}

// HasAction reports whether the caller must open a modal.
func (r BotResponse) HasAction() bool {
	return r.Action != ActionNone
}

type phraseRule struct {
	phrases  []string
	response BotResponse
}

// Checked after the greeting rule, in order.
var phraseRules = []phraseRule{
	{phrases: []string{"help"}, response: BotResponse{Text: HelpText}},
	{phrases: []string{"high risk", "unusual transaction"}, response: BotResponse{Text: HighRiskText, Action: ActionShowHighRisk}},
	{phrases: []string{"low risk", "success", "payment successful"}, response: BotResponse{Text: LowRiskText, Action: ActionShowLowRisk}},
}

var greetingWords = map[string]struct{}{"hello": {}, "hi": {}}

// Classifier picks a canned response or a knowledge answer for free text.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	knowledge *KnowledgeBase
}

// NewClassifier builds a classifier over knowledge; a nil knowledge base falls back to the built-in table.
func NewClassifier(knowledge *KnowledgeBase) *Classifier {
	if knowledge == nil {
		knowledge = defaultKnowledgeBase
	}
	return &Classifier{knowledge: knowledge}
}

// Classify never fails: unmatched input yields FallbackText.
func (c *Classifier) Classify(input string) BotResponse {
	text := strings.ToLower(strings.TrimSpace(input))

	if isGreeting(text) {
		return BotResponse{Text: GreetingText}
	}

	for _, rule := range phraseRules {
		if containsAny(text, rule.phrases) {
			return rule.response
		}
	}

	if answer, ok := c.knowledge.Lookup(text); ok {
		return BotResponse{Text: answer}
	}

	return BotResponse{Text: FallbackText}
}

// Knowledge exposes the table backing the classifier.
func (c *Classifier) Knowledge() *KnowledgeBase {
	return c.knowledge
}

var defaultClassifier = NewClassifier(nil)

// Classify runs the built-in classifier.
func Classify(input string) BotResponse {
	return defaultClassifier.Classify(input)
}

// "hi" is matched as a word so that "this", "phishing" and "high" do not greet.
func isGreeting(text string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, ok := greetingWords[w]; ok {
			return true
		}
	}
	return false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
