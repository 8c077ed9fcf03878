package reply

import "strings"

// Entry maps trigger substrings to a fixed reply.
type Entry struct {
	Triggers []string
	Reply    string
}

// Responder answers some messages without contacting the model. It checks
// FAQ entries, then follow-up keywords, then exam-recommendation requests,
// first match wins. It holds no mutable state.
type Responder struct {
	faq          []Entry
	followUps    []Entry
	examTriggers []string
	examReply    string
}

func NewResponder(faq, followUps []Entry, examTriggers []string, examReply string) *Responder {
	return &Responder{
		faq:          normalizeEntries(faq),
		followUps:    normalizeEntries(followUps),
		examTriggers: normalizeTriggers(examTriggers),
		examReply:    examReply,
	}
}

func (r *Responder) Respond(message string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "", false
	}

	if reply, ok := match(r.faq, msg); ok {
		return reply, true
	}
	if reply, ok := match(r.followUps, msg); ok {
		return reply, true
	}
	if r.examReply != "" && containsAny(msg, r.examTriggers) {
		return r.examReply, true
	}
	return "", false
}

func match(entries []Entry, msg string) (string, bool) {
	for _, e := range entries {
		if containsAny(msg, e.Triggers) {
			return e.Reply, true
		}
	}
	return "", false
}

func containsAny(msg string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}

func normalizeEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		triggers := normalizeTriggers(e.Triggers)
		if len(triggers) == 0 || e.Reply == "" {
			continue
		}
		out = append(out, Entry{Triggers: triggers, Reply: e.Reply})
	}
	return out
}

func normalizeTriggers(triggers []string) []string {
	out := make([]string, 0, len(triggers))
	for _, t := range triggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
