package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTechnicalReplyGenericProgression(t *testing.T) {
	s := newTestStore(time.Minute)

	assert.Equal(t, TechnicalFirstTurnText, s.TechnicalReply("A", "no funciona el servicio"))
	assert.False(t, s.IsHuman("A"))

	assert.Equal(t, TechnicalEscalationText, s.TechnicalReply("A", "sigue sin funcionar"))
	assert.True(t, s.IsHuman("A"))

	s.ClearHuman("A")
	assert.Equal(t, TechnicalFrustrationText, s.TechnicalReply("A", "todavía nada"))
	assert.True(t, s.IsHuman("A"))

	assert.Equal(t, 3, s.Status("A").IssueCounter)
}

func TestTechnicalReplyBranches(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		human bool
		issue Issue
	}{
		{"frustration", "siempre es lo mismo con ustedes", TechnicalFrustrationText, true, IssueNone},
		{"bandwidth figure", "tengo contratado 50 mb y me llegan 5", TechnicalSpeedText, true, IssueOther},
		{"speed word", "la velocidad está fatal", TechnicalSpeedText, true, IssueOther},
		{"tv", "no se ven los canales de la tv", TechnicalTVText, false, IssueTV},
		{"signal without internet", "no tengo señal", TechnicalTVText, false, IssueTV},
		{"first turn", "tengo un problema con el internet", TechnicalFirstTurnText, false, IssueNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(time.Minute)

			assert.Equal(t, tt.want, s.TechnicalReply("A", tt.text))
			assert.Equal(t, tt.human, s.IsHuman("A"))

			status := s.Status("A")
			assert.Equal(t, 1, status.IssueCounter)
			assert.Equal(t, tt.issue, status.LastIssue)
		})
	}
}

func TestTechnicalReplyAsksAboutTVOnlyOnce(t *testing.T) {
	s := newTestStore(time.Minute)

	assert.Equal(t, TechnicalTVText, s.TechnicalReply("A", "la tele no tiene señal"))
	assert.Equal(t, TechnicalEscalationText, s.TechnicalReply("A", "solo un televisor, no hay señal"))
	assert.True(t, s.IsHuman("A"))
}

func TestTechnicalReplyOnlyEscalatesOnKnownMarkers(t *testing.T) {
	tests := []string{
		"el internet está muy lento",
		"otra vez sin servicio",
		"el cable está suelto",
	}

	for _, text := range tests {
		s := newTestStore(time.Minute)

		assert.Equal(t, TechnicalFirstTurnText, s.TechnicalReply("A", text), text)
		assert.False(t, s.IsHuman("A"), text)
	}
}
