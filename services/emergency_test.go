package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEmergency(t *testing.T) {
	t.Run("KeywordInCallerSpeech", func(t *testing.T) {
		transcript := "Agent: Bonjour, comment puis-je vous aider ?\nClient: Je pense au suicide depuis plusieurs jours."
		isEmergency, reason := DetectEmergency(transcript)
		assert.True(t, isEmergency)
		assert.Equal(t, "keyword:suicide", reason)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		isEmergency, reason := DetectEmergency("Client: Mon mari me MENACE tous les jours.")
		assert.True(t, isEmergency)
		assert.Equal(t, "keyword:menace", reason)
	})

	t.Run("FirstMatchWins", func(t *testing.T) {
		// "violence" appears before "danger" in the taxonomy
		isEmergency, reason := DetectEmergency("Client: Il y a du danger et de la violence chez moi.")
		assert.True(t, isEmergency)
		assert.Equal(t, "keyword:violence", reason)
	})

	t.Run("MultiWordKeyword", func(t *testing.T) {
		isEmergency, reason := DetectEmergency("Client: Mon fils est en garde a vue depuis ce matin.")
		assert.True(t, isEmergency)
		assert.Equal(t, "keyword:garde a vue", reason)
	})

	t.Run("NoKeyword", func(t *testing.T) {
		isEmergency, reason := DetectEmergency("Client: Je voudrais un rendez-vous pour un divorce a l'amiable.")
		assert.False(t, isEmergency)
		assert.Empty(t, reason)
	})

	t.Run("EmptyTranscript", func(t *testing.T) {
		isEmergency, reason := DetectEmergency("")
		assert.False(t, isEmergency)
		assert.Empty(t, reason)
	})
}
