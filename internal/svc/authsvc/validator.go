package authsvc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avoronov/pomodoro-backend/internal/domain"
)

// secretKeySeed is the fixed literal the bot token is keyed with when
// deriving the signing secret, as specified by the Telegram WebApp protocol.
const secretKeySeed = "WebAppData"

// ValidateInitData validates a Telegram WebApp init data payload by:
// - Parsing the urlencoded payload and extracting the hash field
// - Rebuilding the data-check string from the sorted remaining key=value pairs
// - Deriving the secret key as HMAC-SHA256(key="WebAppData", msg=botToken)
// - Comparing HMAC-SHA256(key=secret, msg=dataCheckString) against the hash
// - Decoding the embedded user JSON into a Telegram identity
// Every failure mode is wrapped into domain.ErrInvalidInitData; the cause is
// kept for logs but not meant for clients.
func ValidateInitData(
	initData, botToken string,
	now time.Time,
	maxAge time.Duration,
) (domain.TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, fmt.Errorf("parse init data: %w", err))
	}

	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, errors.New("hash not found"))
	}

	pairs := make([]string, 0, len(values))

	for key := range values {
		if key == "hash" {
			continue
		}

		pairs = append(pairs, key+"="+values.Get(key))
	}

	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte(secretKeySeed))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	expectedHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedHash), []byte(receivedHash)) {
		return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, errors.New("hash mismatch"))
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, fmt.Errorf("parse auth_date: %w", err))
		}

		if now.Sub(time.Unix(authDate, 0)) > maxAge {
			return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, errors.New("init data expired"))
		}
	}

	var user domain.TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return domain.TelegramUser{}, errors.Join(domain.ErrInvalidInitData, fmt.Errorf("unmarshal user: %w", err))
	}

	return user, nil
}
