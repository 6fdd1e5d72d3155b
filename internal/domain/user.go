package domain

import "strings"

// User представляет пользователя из справочника внешнего хранилища
type User struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	MayToOpen  bool   `json:"may_to_open"`
}

// DisplayName возвращает отображаемое имя пользователя.
// Приоритет: полное имя, затем имя+фамилия, затем username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.FirstName != "" || u.LastName != "" {
		return strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return CanonicalUsername(u.Username)
}

// CanonicalUsername приводит username к каноническому ключу:
// без пробелов по краям, без ведущего "@", в нижнем регистре.
// Все сравнения идентичности выполняются только по этому ключу.
func CanonicalUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.ToLower(username)
}
