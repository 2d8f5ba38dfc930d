// file: internals/features/notifications/service/notifier.go
//
// Pengirim notifikasi perubahan status jurnal. Fire-and-forget:
// workflow tidak pernah menunggu atau gagal karena notifikasi.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"karakterku_backend/internals/constants"
	logModel "karakterku_backend/internals/features/character_logs/model"
	logService "karakterku_backend/internals/features/character_logs/service"
)

/* =========================================================
 * WhatsApp gateway
 * ========================================================= */

type WhatsAppNotifier struct {
	DB         *gorm.DB
	GatewayURL string
	APIKey     string
	httpClient *http.Client
}

func NewWhatsAppNotifier(db *gorm.DB, gatewayURL, apiKey string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		DB:         db,
		GatewayURL: strings.TrimRight(strings.TrimSpace(gatewayURL), "/"),
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (n *WhatsAppNotifier) Send(ctx context.Context, notif logService.Notification) error {
	phones, err := n.resolvePhones(ctx, notif)
	if err != nil {
		return err
	}
	if len(phones) == 0 {
		log.Printf("[WARN] tidak ada nomor WA untuk role=%s siswa=%s", notif.RecipientRole, notif.StudentID)
		return nil
	}

	msg := renderMessage(notif)
	for _, phone := range phones {
		if err := n.post(ctx, gatewayPayload{Phone: phone, Message: msg}); err != nil {
			return err
		}
	}
	return nil
}

func (n *WhatsAppNotifier) post(ctx context.Context, p gatewayPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.GatewayURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.APIKey)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gateway WA status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// resolvePhones mencari nomor tujuan berdasar role penerima:
// parent -> semua wali tertaut ke siswa, teacher -> wali kelas siswa.
func (n *WhatsAppNotifier) resolvePhones(ctx context.Context, notif logService.Notification) ([]string, error) {
	var phones []string
	var err error

	switch notif.RecipientRole {
	case constants.RoleParent:
		err = n.DB.WithContext(ctx).Table("users").
			Select("users.phone_number").
			Joins("JOIN guardian_students ON guardian_students.guardian_student_guardian_id = users.id").
			Where("guardian_students.guardian_student_student_id = ?", notif.StudentID).
			Where("users.phone_number IS NOT NULL").
			Scan(&phones).Error
	case constants.RoleTeacher:
		err = n.DB.WithContext(ctx).Table("users").
			Select("users.phone_number").
			Joins("JOIN classes ON classes.class_homeroom_teacher_id = users.id").
			Joins("JOIN class_students ON class_students.class_student_class_id = classes.class_id").
			Where("class_students.class_student_student_id = ?", notif.StudentID).
			Where("users.phone_number IS NOT NULL").
			Scan(&phones).Error
	default:
		return nil, fmt.Errorf("role penerima tidak dikenal: %s", notif.RecipientRole)
	}

	return phones, err
}

func renderMessage(notif logService.Notification) string {
	tgl := notif.LogDate.Format("2006-01-02")
	switch notif.NewStatus {
	case logModel.StatusDraft:
		return fmt.Sprintf("Jurnal karakter tanggal %s sudah diisi lengkap dan menunggu approve wali.", tgl)
	case logModel.StatusParentApproved:
		return fmt.Sprintf("Jurnal karakter tanggal %s sudah di-approve wali dan menunggu validasi wali kelas.", tgl)
	case logModel.StatusTeacherValidated:
		return fmt.Sprintf("Jurnal karakter tanggal %s sudah divalidasi wali kelas. Terima kasih! 🙏", tgl)
	default:
		return fmt.Sprintf("Status jurnal karakter tanggal %s berubah menjadi %s.", tgl, notif.NewStatus)
	}
}

/* =========================================================
 * Fallback: log saja (gateway belum dikonfigurasi)
 * ========================================================= */

type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, notif logService.Notification) error {
	log.Printf("[NOTIF] role=%s siswa=%s tgl=%s status=%s",
		notif.RecipientRole, notif.StudentID, notif.LogDate.Format("2006-01-02"), notif.NewStatus)
	return nil
}

// NewNotifier memilih implementasi berdasar konfigurasi gateway.
func NewNotifier(db *gorm.DB, gatewayURL, apiKey string) logService.Notifier {
	if strings.TrimSpace(gatewayURL) == "" {
		return LogNotifier{}
	}
	return NewWhatsAppNotifier(db, gatewayURL, apiKey)
}
