package domain

// ProjectMember представляет участника проекта.
// Username — это обратная ссылка на запись пользователя, а не владение ею:
// роль участника в проекте независима от его глобальной роли.
type ProjectMember struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	TelegramID int64  `json:"telegram_id,omitempty"`
}

// Project представляет проект с участниками
type Project struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Members     []ProjectMember `json:"members"`
}

// MemberRole возвращает роль участника проекта и признак членства.
// Совпадение ищется сначала по telegram id, затем по каноническому
// ключу username. Пользователь без username по username не матчится —
// это принятое ограничение, а не ошибка.
func (p *Project) MemberRole(telegramID int64, username string) (string, bool) {
	key := CanonicalUsername(username)
	for _, member := range p.Members {
		if telegramID != 0 && member.TelegramID == telegramID {
			return member.Role, true
		}
		if key != "" && CanonicalUsername(member.Username) == key {
			return member.Role, true
		}
	}
	return "", false
}

// HasMember проверяет, есть ли участник с таким username в проекте
func (p *Project) HasMember(username string) bool {
	key := CanonicalUsername(username)
	if key == "" {
		return false
	}
	for _, member := range p.Members {
		if CanonicalUsername(member.Username) == key {
			return true
		}
	}
	return false
}
