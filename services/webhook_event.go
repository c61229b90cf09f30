package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Webhook event types sent by ElevenLabs. The post-call variants all
// carry the same logical payload and route to the same handler.
const (
	EventTypeInitiation            = "conversation_initiation_client_data"
	EventTypePostCall              = "post_call"
	EventTypePostCallAudio         = "post_call_audio"
	EventTypePostCallTranscript    = "post_call_transcript"
	EventTypePostCallTranscription = "post_call_transcription"
	EventTypePing                  = "ping"
)

// IsPostCallEvent reports whether the event type is one of the provider's
// post-call aliases.
func IsPostCallEvent(eventType string) bool {
	switch eventType {
	case EventTypePostCall, EventTypePostCallAudio, EventTypePostCallTranscript, EventTypePostCallTranscription:
		return true
	}
	return false
}

// WebhookEvent is the decoded envelope of an inbound webhook request.
// The provider wraps the payload under a "data" key for some event types
// and sends it at the top level for others; Data always holds the
// resolved payload so the rest of the pipeline never cares which shape
// arrived.
type WebhookEvent struct {
	Type string
	Data json.RawMessage
}

// ParseWebhookEvent decodes the raw request body into a typed event.
func ParseWebhookEvent(raw []byte) (*WebhookEvent, error) {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse webhook body: %w", err)
	}

	data := envelope.Data
	if len(data) == 0 || string(data) == "null" {
		data = raw
	}

	return &WebhookEvent{Type: envelope.Type, Data: data}, nil
}

// TranscriptTurn is one turn of the structured conversation transcript.
type TranscriptTurn struct {
	Role      string   `json:"role"`
	Message   string   `json:"message"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// CallAnalysis is the provider's post-call analysis object. Field names
// vary between provider versions, so every known alias is declared and
// the accessors below pick the first populated one.
type CallAnalysis struct {
	TranscriptSummary     string                     `json:"transcript_summary"`
	CallSummaryTitle      string                     `json:"call_summary_title"`
	Summary               string                     `json:"summary"`
	DataCollectionResults map[string]json.RawMessage `json:"data_collection_results"`
	DataCollection        map[string]json.RawMessage `json:"data_collection"`
}

// PostCallData is the typed view of a post-call payload with all the
// provider-specific aliases resolved through accessor methods.
type PostCallData struct {
	ConversationID string `json:"conversation_id"`
	AgentID        string `json:"agent_id"`

	Transcript             []TranscriptTurn `json:"transcript"`
	ConversationTranscript []TranscriptTurn `json:"conversation_transcript"`

	Analysis     *CallAnalysis `json:"analysis"`
	CallAnalysis *CallAnalysis `json:"call_analysis"`

	CollectedData map[string]json.RawMessage `json:"collected_data"`
	TopSummary    string                     `json:"summary"`

	ConversationDurationSeconds *float64 `json:"conversation_duration_seconds"`
	CallDurationSecs            *float64 `json:"call_duration_secs"`
	DurationSeconds             *float64 `json:"duration_seconds"`

	CallSuccessful json.RawMessage `json:"call_successful"`
	Success        json.RawMessage `json:"success"`

	// Raw analysis payload, kept for storage
	AnalysisRaw json.RawMessage `json:"-"`
}

// ParsePostCallData decodes a post-call payload from the resolved
// envelope data.
func ParsePostCallData(data json.RawMessage) (*PostCallData, error) {
	var pc PostCallData
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse post-call payload: %w", err)
	}

	var raw struct {
		Analysis     json.RawMessage `json:"analysis"`
		CallAnalysis json.RawMessage `json:"call_analysis"`
	}
	if err := json.Unmarshal(data, &raw); err == nil {
		if len(raw.Analysis) > 0 && string(raw.Analysis) != "null" {
			pc.AnalysisRaw = raw.Analysis
		} else if len(raw.CallAnalysis) > 0 && string(raw.CallAnalysis) != "null" {
			pc.AnalysisRaw = raw.CallAnalysis
		}
	}

	return &pc, nil
}

// InitiationData is the payload of a conversation-initiation event.
type InitiationData struct {
	ConversationID string `json:"conversation_id"`
	AgentID        string `json:"agent_id"`
}

// ParseInitiationData decodes an initiation payload.
func ParseInitiationData(data json.RawMessage) (*InitiationData, error) {
	var in InitiationData
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse initiation payload: %w", err)
	}
	return &in, nil
}

// Turns returns the structured transcript, whichever alias carried it.
func (pc *PostCallData) Turns() []TranscriptTurn {
	if len(pc.Transcript) > 0 {
		return pc.Transcript
	}
	return pc.ConversationTranscript
}

// TranscriptText renders the transcript as "Agent:"/"Client:" prefixed
// lines. The prefixes matter downstream: the extractor only scans lines
// attributed to the client.
func (pc *PostCallData) TranscriptText() string {
	turns := pc.Turns()
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		speaker := "Client"
		if turn.Role == "agent" {
			speaker = "Agent"
		}
		lines = append(lines, speaker+": "+turn.Message)
	}
	return strings.Join(lines, "\n")
}

// analysis returns whichever analysis alias is populated.
func (pc *PostCallData) analysis() *CallAnalysis {
	if pc.Analysis != nil {
		return pc.Analysis
	}
	return pc.CallAnalysis
}

// SummaryText returns the call summary, trying the provider aliases in
// order; empty string when none is present.
func (pc *PostCallData) SummaryText() string {
	if a := pc.analysis(); a != nil {
		if a.TranscriptSummary != "" {
			return a.TranscriptSummary
		}
		if a.CallSummaryTitle != "" {
			return a.CallSummaryTitle
		}
		if a.Summary != "" {
			return a.Summary
		}
	}
	return pc.TopSummary
}

// DataCollection returns the structured collected-data fields captured by
// the voice agent, whichever alias carried them.
func (pc *PostCallData) DataCollection() map[string]json.RawMessage {
	if a := pc.analysis(); a != nil {
		if len(a.DataCollectionResults) > 0 {
			return a.DataCollectionResults
		}
		if len(a.DataCollection) > 0 {
			return a.DataCollection
		}
	}
	return pc.CollectedData
}

// DurationSecs returns the call duration in whole seconds, nil when the
// provider sent none of the duration aliases.
func (pc *PostCallData) DurationSecs() *int {
	for _, d := range []*float64{pc.ConversationDurationSeconds, pc.CallDurationSecs, pc.DurationSeconds} {
		if d != nil {
			secs := int(math.Round(*d))
			return &secs
		}
	}
	return nil
}

// Unsuccessful reports whether the provider explicitly marked the call
// as failed. Anything ambiguous (missing field, unknown encoding) counts
// as successful: only an explicit failure moves a call to FAILED.
func (pc *PostCallData) Unsuccessful() bool {
	for _, raw := range []json.RawMessage{pc.CallSuccessful, pc.Success} {
		if len(raw) == 0 {
			continue
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return !b
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s == "failure" || s == "false"
		}
	}
	return false
}
