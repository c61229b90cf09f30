package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractedContact is the normalized output of contact extraction.
// Empty string means "not found" - extraction never fabricates
// placeholder values.
type ExtractedContact struct {
	Phone     string
	FirstName string
	LastName  string
	Email     string
}

// HasAny reports whether any identifying field was found.
func (e ExtractedContact) HasAny() bool {
	return e.Phone != "" || e.FirstName != "" || e.LastName != "" || e.Email != ""
}

var (
	// French/Belgian formats: leading trunk "0X" or country code +33/+32,
	// then 8-9 more digits with optional space/dot/dash separators
	transcriptPhoneRe = regexp.MustCompile(`(?:0[1-9]|\+33|\+32)[\s.\-]?(?:\d[\s.\-]?){8,9}`)

	transcriptEmailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Self-introduction phrasings: "c'est <Name>", "je m'appelle <Name>",
	// "au nom de <Name>", etc. The captured span is split into first/last
	// on whitespace.
	transcriptNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:c'est|je suis|je m'appelle|mon nom est|mon nom c'est)\s+([A-Za-zÀ-Üà-ü]+(?:\s+[A-Za-zÀ-Üà-ü]+)?)`),
		regexp.MustCompile(`(?i)(?:au nom de|pour)\s+([A-Za-zÀ-Üà-ü]+(?:\s+[A-Za-zÀ-Üà-ü]+)?)`),
	}
)

// ExtractContactInfo produces best-effort contact fields from a call.
//
// Layered strategy: explicit collected-data fields captured by the voice
// agent always win; the transcript heuristics only run when no
// structured field was usable, so a decoy number spoken mid-dialogue can
// never override agent-collected data. Pure function, safe to re-run.
func ExtractContactInfo(dataCollection map[string]json.RawMessage, transcriptText string) ExtractedContact {
	contact := ExtractedContact{
		Phone:     collectedString(dataCollection, "phone", "telephone", "numero"),
		FirstName: collectedString(dataCollection, "first_name", "prenom"),
		LastName:  collectedString(dataCollection, "last_name", "nom"),
		Email:     collectedString(dataCollection, "email"),
	}

	if contact.HasAny() || transcriptText == "" {
		return contact
	}

	// Heuristic fallback: scan only lines spoken by the caller, so the
	// agent's own scripted speech can't produce false positives.
	speech := clientSpeech(transcriptText)
	if speech == "" {
		return contact
	}

	if m := transcriptPhoneRe.FindString(speech); m != "" {
		contact.Phone = StripPhoneSeparators(m)
	}

	if m := transcriptEmailRe.FindString(speech); m != "" {
		contact.Email = m
	}

	for _, re := range transcriptNameRes {
		m := re.FindStringSubmatch(speech)
		if m == nil {
			continue
		}
		parts := strings.Fields(m[1])
		if len(parts) >= 2 {
			contact.FirstName = parts[0]
			contact.LastName = strings.Join(parts[1:], " ")
		} else if len(parts) == 1 {
			contact.FirstName = parts[0]
		}
		break
	}

	return contact
}

// collectedString returns the first non-empty collected-data value among
// the given keys. Values arrive either as plain strings or wrapped as
// {"value": "..."} depending on provider version.
func collectedString(data map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := data[key]
		if !ok || len(raw) == 0 {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}

		var wrapped struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != "" {
			return wrapped.Value
		}
	}
	return ""
}

// clientSpeech concatenates the lines attributed to the caller.
func clientSpeech(transcriptText string) string {
	var parts []string
	for _, line := range strings.Split(transcriptText, "\n") {
		if rest, found := strings.CutPrefix(line, "Client:"); found {
			parts = append(parts, strings.TrimSpace(rest))
		}
	}
	return strings.Join(parts, " ")
}
