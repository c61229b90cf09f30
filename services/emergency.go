package services

import "strings"

// emergencyKeywords is the fixed taxonomy of severe-risk terms scanned
// for in transcripts: physical danger, detention, self-harm, coercion.
// Matching is deliberately biased toward false positives - missing a
// genuine emergency is worse than an occasional false alarm.
var emergencyKeywords = []string{
	"violence", "frappe", "battu", "menace", "danger",
	"urgence", "garde a vue", "agression", "suicide",
	"harcelement", "viol",
}

// DetectEmergency scans transcript text for emergency keywords. The
// first match wins and yields reason "keyword:<term>". Pure function:
// no scoring, no external state.
func DetectEmergency(transcriptText string) (bool, string) {
	if transcriptText == "" {
		return false, ""
	}

	lower := strings.ToLower(transcriptText)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return true, "keyword:" + kw
		}
	}
	return false, ""
}
