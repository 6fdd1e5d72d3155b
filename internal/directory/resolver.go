// Package directory строит справочник пользователей для сопоставления
// введенных вручную username с учетными записями платформы.
package directory

import "github.com/aidar/taskhub/internal/domain"

// Identity представляет разрешенную учетную запись
type Identity struct {
	TelegramID int64  `json:"telegram_id"`
	FullName   string `json:"full_name"`
}

// Directory отображает канонический ключ username в учетную запись
type Directory map[string]Identity

// Build строит справочник по списку пользователей. Пользователи без
// username в справочник не попадают: по одному только platform id их
// невозможно сопоставить со свободным вводом.
func Build(users []domain.User) Directory {
	dir := make(Directory, len(users))
	for _, user := range users {
		key := domain.CanonicalUsername(user.Username)
		if key == "" {
			continue
		}
		dir[key] = Identity{
			TelegramID: user.TelegramID,
			FullName:   user.DisplayName(),
		}
	}
	return dir
}

// Resolve разрешает введенный вручную username в учетную запись.
// "@Alice" и "alice" разрешаются одинаково. Промах — это не ошибка:
// ввод человеческий и опечатки ожидаемы, вызывающий код обязан явно
// обработать второй результат.
func (d Directory) Resolve(raw string) (Identity, bool) {
	key := domain.CanonicalUsername(raw)
	if key == "" {
		return Identity{}, false
	}
	identity, ok := d[key]
	return identity, ok
}
