// file: internals/helpers/auth/auth_blacklist.go
//
// Blacklist access token yang di-logout sebelum kadaluarsa.
// Yang disimpan di tabel hanya HMAC(token, JWT_SECRET) hex, bukan
// token mentah. Middleware-nya dipasang DI DEPAN guard JWT.
package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tokenHelper "karakterku_backend/internals/helpers"
)

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// Add memasukkan access token ke blacklist sampai expiresAt.
// Duplikat (logout dua kali dengan token sama) bukan error.
func Add(ctx context.Context, db *gorm.DB, rawToken, jwtSecret string, expiresAt time.Time) error {
	rawToken = strings.TrimSpace(rawToken)
	if db == nil || rawToken == "" || jwtSecret == "" {
		return nil
	}
	err := db.WithContext(ctx).Table("token_blacklist").Create(map[string]any{
		"token":      hmacHex(rawToken, jwtSecret),
		"expired_at": expiresAt,
		"created_at": time.Now(),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// IsBlacklisted: true kalau token ada di blacklist dan belum lewat masa berlakunya.
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawToken, jwtSecret string) (bool, error) {
	rawToken = strings.TrimSpace(rawToken)
	if db == nil || rawToken == "" || jwtSecret == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Table("token_blacklist").
		Where("token = ?", hmacHex(rawToken, jwtSecret)).
		Where("deleted_at IS NULL").
		Where("expired_at > ?", time.Now()).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MiddlewareBlacklistOnly menolak request yang membawa token ter-blacklist.
// Request tanpa token diteruskan apa adanya; biar guard JWT yang menolak.
func MiddlewareBlacklistOnly(db *gorm.DB, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := tokenHelper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}
		blacklisted, err := IsBlacklisted(c.UserContext(), db, raw, jwtSecret)
		if err == nil && blacklisted {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Sesi sudah keluar. Silakan login lagi.",
			})
		}
		return c.Next()
	}
}
