// file: internals/features/users/auth/scheduler/cleanup.go
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	authModel "karakterku_backend/internals/features/users/auth/model"
)

// StartTokenCleanupScheduler membersihkan blacklist dan refresh token
// yang sudah lama kadaluarsa, sekali tiap 24 jam. TTL bisa diatur
// lewat TOKEN_CLEANUP_TTL_DAYS (default 7 hari setelah kadaluarsa).
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := 7
		if val := os.Getenv("TOKEN_CLEANUP_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				ttlDays = parsed
			}
		}

		for {
			cutoff := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			res := db.Unscoped().
				Where("expired_at < ?", cutoff).
				Delete(&authModel.TokenBlacklistModel{})
			if res.Error != nil {
				log.Printf("[ERROR] Cleanup blacklist gagal: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d token blacklist kadaluarsa dihapus", res.RowsAffected)
			}

			res = db.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
				Delete(&authModel.RefreshTokenModel{})
			if res.Error != nil {
				log.Printf("[ERROR] Cleanup refresh token gagal: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d refresh token kadaluarsa dihapus", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
