// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"karakterku_backend/internals/configs"
	"karakterku_backend/internals/constants"
	authDTO "karakterku_backend/internals/features/users/auth/dto"
	userModel "karakterku_backend/internals/features/users/user/model"
	helper "karakterku_backend/internals/helpers"
	helperAuth "karakterku_backend/internals/helpers/auth"
)

const accessTTLDefault = 2 * time.Hour

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := userModel.UserModel{
		UserName:    req.UserName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    string(hashed),
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}
	user.SetDefaultValues()

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}

	return helper.JsonCreated(c, "Registrasi berhasil", authDTO.AuthUserResponse{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

/* ==========================
   LOGIN (email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	var user userModel.UserModel
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		// pesan sama untuk email tidak ada vs password salah
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	return issueToken(db, c, user)
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginGoogleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	// Verifikasi token Google
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to decode ID Token")
	}
	email, name, googleID := claimSet.Email, claimSet.Name, claimSet.Sub

	var user userModel.UserModel
	err = db.Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		// User belum ada -> buat baru dengan role default student
		user = userModel.UserModel{
			UserName: name,
			Email:    strings.ToLower(email),
			Password: generateDummyPassword(),
			GoogleID: &googleID,
			Role:     constants.RoleStudent,
			IsActive: true,
		}
		user.SetDefaultValues()
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return helper.JsonError(c, fiber.StatusBadRequest, "Email sudah terdaftar")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user Google")
		}
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	return issueToken(db, c, user)
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	now := time.Now()

	// Access token yang masih beredar ditahan di blacklist sampai
	// masa berlakunya habis; hapus cookie saja tidak cukup untuk
	// klien yang menyimpan token Bearer.
	if raw := helper.GetRawAccessToken(c); raw != "" {
		exp := accessTokenExpiry(raw, now.Add(accessTTLDefault))
		if err := helperAuth.Add(c.UserContext(), db, raw, configs.JWTSecret, exp); err != nil {
			log.Printf("[ERROR] Gagal blacklist access token: %v", err)
		}
	}

	revokeRefreshFromCookie(db, c)

	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  now.Add(-time.Hour),
		})
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}

/* ==========================
   INTERNAL
========================== */

func issueToken(db *gorm.DB, c *fiber.Ctx, user userModel.UserModel) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTTLDefault).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    signed,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})

	if err := issueRefreshToken(db, c, user.ID, now); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	return helper.JsonOK(c, "Login berhasil", authDTO.LoginResponse{
		AccessToken: signed,
		User: authDTO.AuthUserResponse{
			ID:       user.ID,
			UserName: user.UserName,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func generateDummyPassword() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
