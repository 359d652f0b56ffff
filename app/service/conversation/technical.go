package conversation

import (
	"regexp"
	"strings"

	"github.com/elliotchance/pie/v2"
)

type Issue string

const (
	IssueNone  Issue = "none"
	IssueTV    Issue = "tv"
	IssueOther Issue = "other"
)

type TechnicalContext struct {
	IssueCounter int   `json:"issue_counter"`
	LastIssue    Issue `json:"last_issue"`
}

const (
	TechnicalFrustrationText = "Entiendo tu frustración y veo que necesitas ayuda más específica. " +
		"Te sugiero usar la opción 4️⃣ para hablar directamente con nuestro equipo técnico que podrá ayudarte mejor con este problema."

	TechnicalSpeedText = "Entiendo que estás teniendo problemas con la velocidad de tu internet. " +
		"Este tipo de situación requiere una revisión técnica para verificar tu conexión y asegurar que recibas la velocidad contratada. " +
		"Te sugiero usar la opción 4️⃣ para que nuestro equipo técnico pueda realizar las pruebas necesarias y solucionar tu problema."

	TechnicalTVText = "Entiendo que tienes problemas con la señal de televisión. " +
		"¿Podrías decirme si todos los televisores están afectados o solo uno en particular? " +
		"También sería útil saber si la pantalla está completamente negra o si aparece algún mensaje de error."

	TechnicalFirstTurnText = "¡Hola! Lamento que estés teniendo problemas con el servicio 😔. " +
		"¿Podrías especificar qué tipo de problema estás experimentando? " +
		"¿Es con el internet, la televisión o ambos?"

	TechnicalEscalationText = "Entiendo. Para poder ayudarte mejor con este problema específico, " +
		"te sugiero usar la opción 4️⃣ para hablar directamente con nuestro equipo técnico."
)

const frustrationThreshold = 2

var (
	frustrationMarkers = []string{"siempre", "lo mismo", "necesito ayuda"}
	speedMarkers       = []string{"mega", "velocidad"}
	tvMarkers          = []string{"television", "televisión", "tv", "canal"}

	bandwidthPattern = regexp.MustCompile(`\d+\s*mb|\bmb\b`)
)

// TechnicalReply produces the next reply of the technical-issue dialogue and
// advances its context. Escalating branches put the conversation in
// human-handled mode.
func (s *Store) TechnicalReply(chatID, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordLocked(chatID)
	ctx := &rec.technical
	if ctx.LastIssue == "" {
		ctx.LastIssue = IssueNone
	}
	defer func() {
		ctx.IssueCounter++
	}()

	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, frustrationMarkers) || ctx.IssueCounter >= frustrationThreshold:
		s.markHumanLocked(chatID, rec)
		return TechnicalFrustrationText

	case containsAny(lower, speedMarkers) || bandwidthPattern.MatchString(lower):
		ctx.LastIssue = IssueOther
		s.markHumanLocked(chatID, rec)
		return TechnicalSpeedText

	case isTVIssue(lower) && ctx.LastIssue != IssueTV:
		ctx.LastIssue = IssueTV
		return TechnicalTVText

	case ctx.IssueCounter == 0:
		return TechnicalFirstTurnText

	default:
		s.markHumanLocked(chatID, rec)
		return TechnicalEscalationText
	}
}

func isTVIssue(lower string) bool {
	if containsAny(lower, tvMarkers) {
		return true
	}

	return strings.Contains(lower, "señal") && !strings.Contains(lower, "internet")
}

func containsAny(text string, markers []string) bool {
	return pie.Any(markers, func(marker string) bool {
		return strings.Contains(text, marker)
	})
}
