package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyKeyword     = errors.New("knowledge entry has an empty keyword")
	ErrDuplicateKeyword = errors.New("knowledge entry has a duplicate keyword")
	ErrKeywordCase      = errors.New("knowledge keyword must be lowercase")
	ErrEmptyAnswer      = errors.New("knowledge entry has an empty answer")
)

// KnowledgeEntry maps a keyword set to one answer.
type KnowledgeEntry struct {
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

// KnowledgeBase is an ordered, read-only keyword table. First match wins.
type KnowledgeBase struct {
	entries []KnowledgeEntry
}

// NewKnowledgeBase validates entries and returns a table that owns a copy of them.
func NewKnowledgeBase(entries []KnowledgeEntry) (*KnowledgeBase, error) {
	copied := make([]KnowledgeEntry, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Answer) == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyAnswer)
		}

		seen := make(map[string]struct{}, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			if kw == "" {
				return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyKeyword)
			}
			if kw != strings.ToLower(kw) {
				return nil, fmt.Errorf("entry %d %q: %w", i, kw, ErrKeywordCase)
			}
			if _, dup := seen[kw]; dup {
				return nil, fmt.Errorf("entry %d %q: %w", i, kw, ErrDuplicateKeyword)
			}
			seen[kw] = struct{}{}
		}

		copied[i] = KnowledgeEntry{
			Keywords: append([]string(nil), entry.Keywords...),
			Answer:   entry.Answer,
		}
	}
	return &KnowledgeBase{entries: copied}, nil
}

// Lookup returns the answer of the first entry with a keyword contained in query.
func (kb *KnowledgeBase) Lookup(query string) (string, bool) {
	q := strings.ToLower(query)
	if q == "" {
		return "", false
	}
	for _, entry := range kb.entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(q, kw) {
				return entry.Answer, true
			}
		}
	}
	return "", false
}

// Entries returns a copy of the table in lookup order.
func (kb *KnowledgeBase) Entries() []KnowledgeEntry {
	out := make([]KnowledgeEntry, len(kb.entries))
	for i, entry := range kb.entries {
		out[i] = KnowledgeEntry{
			Keywords: append([]string(nil), entry.Keywords...),
			Answer:   entry.Answer,
		}
	}
	return out
}

// Len returns the number of entries.
func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// DefaultKnowledge is the built-in banking help table, in lookup order.
var DefaultKnowledge = []KnowledgeEntry{
	{
		Keywords: []string{"online banking", "digital banking", "internet banking"},
		Answer:   "Online banking lets you manage your bank accounts over the internet without having to visit a bank branch. You can check your balance, pay bills, and transfer money from your computer or smartphone.",
	},
	{
		Keywords: []string{"safe", "secure", "security", "fraud", "scam"},
		Answer:   "To stay safe online, never share your password or OTP (One-Time Password) with anyone. Banks will never ask for this information. Be cautious of suspicious emails or text messages asking for your personal details.",
	},
	{
		Keywords: []string{"password", "pin"},
		Answer:   "A strong password is important for security. It should be a mix of letters, numbers, and symbols, and be something that is hard for others to guess. Avoid using personal information like your birthday.",
	},
	{
		Keywords: []string{"otp", "one-time password"},
		Answer:   "An OTP, or One-Time Password, is a unique code sent to your mobile number for a single transaction. It adds an extra layer of security. Never share it with anyone, even if they claim to be from the bank.",
	},
	{
		Keywords: []string{"transfer money", "send money"},
		Answer:   "You can send money to others using their bank account number or through services like InstaPay. Always double-check the recipient's details before confirming the transfer.",
	},
	{
		Keywords: []string{"pay bills", "bills payment"},
		Answer:   "Most banking apps allow you to pay utility bills, credit card bills, and more directly from the app. You can usually find this in a 'Pay Bills' section.",
	},
	{
		Keywords: []string{"phishing"},
		Answer:   "Phishing is a type of scam where criminals send fake emails or texts that look like they're from your bank to trick you into giving them your personal information. Always be wary of links in unsolicited messages.",
	},
	{
		Keywords: []string{"trusted guardian", "guardian"},
		Answer:   "The Trusted Guardian feature in Kalasag allows you to appoint a trusted person who can be alerted about your transactions, adding a human layer of security to your account.",
	},
	{
		Keywords: []string{"kalasag"},
		Answer:   "Kalasag is a special mode in the BPI app designed to be simpler and safer for senior citizens, helping you bank online with confidence.",
	},
}

var defaultKnowledgeBase = mustKnowledgeBase(DefaultKnowledge)

func mustKnowledgeBase(entries []KnowledgeEntry) *KnowledgeBase {
	kb, err := NewKnowledgeBase(entries)
	if err != nil {
		panic(fmt.Sprintf("engine: invalid built-in knowledge table: %v", err))
	}
	return kb
}

// Lookup searches the built-in knowledge table.
func Lookup(query string) (string, bool) {
	return defaultKnowledgeBase.Lookup(query)
}

// Knowledge returns the built-in knowledge table.
func Knowledge() *KnowledgeBase {
	return defaultKnowledgeBase
}
