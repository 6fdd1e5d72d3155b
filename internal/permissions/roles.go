package permissions

import (
	"sort"
	"strings"
	"unicode"
)

// RoleToken представляет каноническую роль, распознанную в строке ролей
type RoleToken string

// Канонические роли. Строки ролей редактируются людьми, поэтому каждая
// роль имеет несколько допустимых написаний (русское и английское).
const (
	RoleAdmin     RoleToken = "admin"
	RoleModerator RoleToken = "moderator"
	RoleLeader    RoleToken = "leader"
	RoleDeveloper RoleToken = "developer"
	RoleMember    RoleToken = "member"
)

// tokenSpellings задает соответствие написаний каноническим ролям
var tokenSpellings = map[string]RoleToken{
	"админ":        RoleAdmin,
	"admin":        RoleAdmin,
	"владелец":     RoleAdmin,
	"owner":        RoleAdmin,
	"модератор":    RoleModerator,
	"moderator":    RoleModerator,
	"руководитель": RoleLeader,
	"разработчик":  RoleDeveloper,
	"участник":     RoleMember,
}

// RoleSet представляет разобранную строку ролей: набор канонических
// ролей плюс нераспознанные слова. Нераспознанные слова не отбрасываются,
// чтобы строка роли не теряла информацию при нормализации.
type RoleSet struct {
	tokens map[RoleToken]struct{}
	other  map[string]struct{}
}

// ParseRoles разбирает свободную строку ролей в RoleSet.
// Разделители: пробельные символы, запятая, точка с запятой, слэш,
// вертикальная черта, плюс. Регистр не значим, пустые слова и дубликаты
// схлопываются. Функция тотальна: пустая строка дает пустой набор.
func ParseRoles(raw string) RoleSet {
	set := RoleSet{
		tokens: make(map[RoleToken]struct{}),
		other:  make(map[string]struct{}),
	}
	words := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		switch r {
		case ',', ';', '/', '|', '+':
			return true
		default:
			// Строки ролей редактируются людьми, неразрывный пробел
			// из буфера обмена тоже разделитель
			return unicode.IsSpace(r)
		}
	})
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if token, ok := tokenSpellings[word]; ok {
			set.tokens[token] = struct{}{}
		} else {
			set.other[word] = struct{}{}
		}
	}
	return set
}

// Has проверяет наличие канонической роли в наборе
func (s RoleSet) Has(token RoleToken) bool {
	_, ok := s.tokens[token]
	return ok
}

// HasWord проверяет наличие нераспознанного слова в наборе
func (s RoleSet) HasWord(word string) bool {
	_, ok := s.other[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// IsEmpty сообщает, пуст ли набор
func (s RoleSet) IsEmpty() bool {
	return len(s.tokens) == 0 && len(s.other) == 0
}

// Tokens возвращает канонические роли набора в стабильном порядке
func (s RoleSet) Tokens() []RoleToken {
	tokens := make([]RoleToken, 0, len(s.tokens))
	for token := range s.tokens {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// Equal сравнивает два набора ролей
func (s RoleSet) Equal(other RoleSet) bool {
	if len(s.tokens) != len(other.tokens) || len(s.other) != len(other.other) {
		return false
	}
	for token := range s.tokens {
		if _, ok := other.tokens[token]; !ok {
			return false
		}
	}
	for word := range s.other {
		if _, ok := other.other[word]; !ok {
			return false
		}
	}
	return true
}
