// Package telegram проверяет подлинность данных авторизации,
// приходящих из Telegram Login Widget / Mini App.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// CheckAuth проверяет подпись данных авторизации Telegram.
// Строка проверки собирается из всех пар кроме "hash", сортируется и
// подписывается HMAC-SHA256 с ключом sha256(botToken), как описано в
// документации Telegram.
func CheckAuth(data map[string]string, botToken string) error {
	checkList := make([]string, 0, len(data))
	for k, v := range data {
		if k == "hash" {
			continue
		}
		checkList = append(checkList, fmt.Sprintf("%s=%s", k, v))
	}

	sort.Strings(checkList)
	dataString := strings.Join(checkList, "\n")

	secretKey := sha256.Sum256([]byte(botToken))

	h := hmac.New(sha256.New, secretKey[:])
	h.Write([]byte(dataString))
	expectedHash := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(expectedHash), []byte(data["hash"])) {
		return fmt.Errorf("invalid telegram auth hash")
	}

	return nil
}
