package domain

import "strings"

// Market representa un mercado binario de Polymarket resuelto desde Gamma.
// TokenIDs y Outcomes van indexados en el mismo orden (outcome i ↔ token i).
type Market struct {
	ConditionID string
	Slug        string
	Question    string
	TokenIDs    []string
	Outcomes    []string
	Active      bool
	Closed      bool
	NegRisk     bool
}

// OutcomeIndex busca el outcome con matching exacto case-insensitive y
// sin espacios alrededor. Devuelve -1 si no hay match.
func (m Market) OutcomeIndex(label string) int {
	want := strings.ToLower(strings.TrimSpace(label))
	for i, o := range m.Outcomes {
		if strings.ToLower(strings.TrimSpace(o)) == want {
			return i
		}
	}
	return -1
}

// IsLiteralTokenID devuelve true si el input es un token id literal:
// puramente numérico y con más de 10 caracteres. Los slugs nunca cumplen esto.
func IsLiteralTokenID(s string) bool {
	if len(s) <= 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
