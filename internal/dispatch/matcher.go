package dispatch

import (
	"strings"

	"github.com/shenikar/safetracker_system/internal/models"
)

// Matcher определяет, какие инциденты видны и доступны волонтеру.
// Сопоставление по подстрокам адреса, без гео-расстояний: адрес волонтера
// разбивается по запятым на токены, и достаточно вхождения одного токена
// в адрес инцидента. Фильтр намеренно грубый и дает ложные срабатывания.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// IsEligible сообщает, может ли волонтер принять инцидент.
// Волонтер без адреса подходит под любой инцидент. Инцидент без адреса
// виден только волонтерам без адреса: искать подстроку не в чем.
func (m *Matcher) IsEligible(incident *models.Incident, volunteer *models.User) bool {
	tokens := addressTokens(volunteer.Address)
	if len(tokens) == 0 {
		return true
	}

	location := strings.ToLower(incident.FullAddress)
	for _, token := range tokens {
		if strings.Contains(location, token) {
			return true
		}
	}
	return false
}

// FilterEligible возвращает инциденты, доступные волонтеру, сохраняя порядок
func (m *Matcher) FilterEligible(incidents []*models.Incident, volunteer *models.User) []*models.Incident {
	eligible := make([]*models.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if m.IsEligible(incident, volunteer) {
			eligible = append(eligible, incident)
		}
	}
	return eligible
}

// addressTokens разбивает адрес по запятым на непустые токены в нижнем регистре
func addressTokens(address string) []string {
	parts := strings.Split(address, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
