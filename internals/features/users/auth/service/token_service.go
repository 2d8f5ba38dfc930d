// file: internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"karakterku_backend/internals/configs"
	authModel "karakterku_backend/internals/features/users/auth/model"
	userModel "karakterku_backend/internals/features/users/user/model"
	helper "karakterku_backend/internals/helpers"
)

const refreshTTLDefault = 7 * 24 * time.Hour

// computeRefreshHash: yang masuk DB hanya HMAC-SHA256 hex dari
// refresh token, bukan token mentah.
func computeRefreshHash(token, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

// issueRefreshToken menerbitkan refresh JWT (typ=refresh), menyimpan
// hash-nya, lalu memasang cookie. Kalau JWT_REFRESH_SECRET kosong,
// flow refresh dimatikan dan login tetap jalan.
func issueRefreshToken(db *gorm.DB, c *fiber.Ctx, userID uuid.UUID, now time.Time) error {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		log.Println("[WARN] JWT_REFRESH_SECRET kosong, refresh token tidak diterbitkan")
		return nil
	}

	// jti bikin tiap token unik walau diterbitkan di detik yang sama
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": "refresh",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}

	row := authModel.RefreshTokenModel{
		UserID:    userID,
		Token:     computeRefreshHash(signed, secret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: optionalStr(c.Get("User-Agent")),
		IP:        optionalStr(c.IP()),
	}
	if err := db.Create(&row).Error; err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    signed,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
	return nil
}

/* ==========================
   REFRESH TOKEN (rotasi)
========================== */

// RefreshToken menukar refresh token di cookie dengan access token
// baru. Refresh token lama SELALU di-revoke dulu (rotasi): token yang
// sudah dipakai tidak bisa dipakai ulang.
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Refresh token belum dikonfigurasi")
	}

	raw := strings.TrimSpace(c.Cookies("refresh_token"))
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("metode tanda tangan tidak dikenal")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak valid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak valid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak valid")
	}

	now := time.Now()
	hash := computeRefreshHash(raw, secret)

	var row authModel.RefreshTokenModel
	err = db.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token sudah tidak berlaku")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa refresh token")
	}
	if row.UserID != userID {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token sudah tidak berlaku")
	}

	var user userModel.UserModel
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	// Rotasi: revoke baris lama sebelum pasangan token baru diterbitkan
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", row.ID).
		Update("revoked_at", now).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal merotasi refresh token")
	}

	return issueToken(db, c, user)
}

// revokeRefreshFromCookie me-revoke refresh token yang terpasang di
// cookie request (dipanggil saat logout). Best effort.
func revokeRefreshFromCookie(db *gorm.DB, c *fiber.Ctx) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	raw := strings.TrimSpace(c.Cookies("refresh_token"))
	if secret == "" || raw == "" {
		return
	}
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("token = ? AND revoked_at IS NULL", computeRefreshHash(raw, secret)).
		Update("revoked_at", time.Now()).Error; err != nil {
		log.Printf("[ERROR] Gagal revoke refresh token: %v", err)
	}
}

// accessTokenExpiry membaca klaim exp tanpa verifikasi, untuk
// menentukan sampai kapan token perlu ditahan di blacklist.
func accessTokenExpiry(raw string, fallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			return time.Unix(int64(exp), 0)
		}
	}
	return fallback
}

func optionalStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
