package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"karakterku_backend/internals/constants"
	logModel "karakterku_backend/internals/features/character_logs/model"
	logService "karakterku_backend/internals/features/character_logs/service"
	classModel "karakterku_backend/internals/features/school/classes/model"
	guardianModel "karakterku_backend/internals/features/school/guardians/model"
	userModel "karakterku_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&classModel.ClassModel{},
		&classModel.ClassStudentModel{},
		&guardianModel.GuardianStudentModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, role, phone string) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		UserName: fmt.Sprintf("%s-%s", role, uuid.NewString()[:8]),
		Email:    fmt.Sprintf("%s@contoh.sch.id", uuid.NewString()[:8]),
		Password: "rahasia",
		Role:     role,
	}
	if phone != "" {
		u.PhoneNumber = &phone
	}
	u.SetDefaultValues()
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

type capturedSend struct {
	Phone   string
	Message string
	Auth    string
}

func newGateway(t *testing.T) (*httptest.Server, func() []capturedSend) {
	t.Helper()
	var mu sync.Mutex
	var sends []capturedSend

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/send" {
			t.Errorf("request %s %s", r.Method, r.URL.Path)
		}
		var p gatewayPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		mu.Lock()
		sends = append(sends, capturedSend{Phone: p.Phone, Message: p.Message, Auth: r.Header.Get("Authorization")})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	return srv, func() []capturedSend {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedSend, len(sends))
		copy(out, sends)
		return out
	}
}

func TestSendToLinkedGuardians(t *testing.T) {
	db := newTestDB(t)
	srv, got := newGateway(t)
	defer srv.Close()

	studentID := createUser(t, db, constants.RoleStudent, "")
	fatherID := createUser(t, db, constants.RoleParent, "+6281234567890")
	motherID := createUser(t, db, constants.RoleParent, "+6281234567891")
	// wali tanpa nomor WA: dilewati tanpa error
	noPhoneID := createUser(t, db, constants.RoleParent, "")
	for _, gid := range []uuid.UUID{fatherID, motherID, noPhoneID} {
		if err := db.Create(&guardianModel.GuardianStudentModel{
			GuardianStudentGuardianID: gid,
			GuardianStudentStudentID:  studentID,
		}).Error; err != nil {
			t.Fatalf("link guardian: %v", err)
		}
	}

	n := NewWhatsAppNotifier(db, srv.URL, "kunci-wa")
	err := n.Send(context.Background(), logService.Notification{
		RecipientRole: constants.RoleParent,
		StudentID:     studentID,
		LogDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		NewStatus:     "draft",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	sends := got()
	if len(sends) != 2 {
		t.Fatalf("jumlah kiriman = %d, want 2", len(sends))
	}
	phones := map[string]bool{}
	for _, s := range sends {
		phones[s.Phone] = true
		if s.Auth != "Bearer kunci-wa" {
			t.Errorf("Authorization = %q", s.Auth)
		}
		if !strings.Contains(s.Message, "2024-05-01") || !strings.Contains(s.Message, "menunggu approve wali") {
			t.Errorf("pesan = %q", s.Message)
		}
	}
	if !phones["+6281234567890"] || !phones["+6281234567891"] {
		t.Errorf("nomor tujuan = %v", phones)
	}
}

func TestSendToHomeroomTeacher(t *testing.T) {
	db := newTestDB(t)
	srv, got := newGateway(t)
	defer srv.Close()

	studentID := createUser(t, db, constants.RoleStudent, "")
	teacherID := createUser(t, db, constants.RoleTeacher, "+6285550001111")

	cls := classModel.ClassModel{
		ClassName:              "8B",
		ClassAcademicYear:      "2024/2025",
		ClassHomeroomTeacherID: &teacherID,
	}
	if err := db.Create(&cls).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}
	if err := db.Create(&classModel.ClassStudentModel{
		ClassStudentClassID:   cls.ClassID,
		ClassStudentStudentID: studentID,
	}).Error; err != nil {
		t.Fatalf("enroll: %v", err)
	}

	n := NewWhatsAppNotifier(db, srv.URL, "")
	err := n.Send(context.Background(), logService.Notification{
		RecipientRole: constants.RoleTeacher,
		StudentID:     studentID,
		LogDate:       time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		NewStatus:     "parent_approved",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	sends := got()
	if len(sends) != 1 {
		t.Fatalf("jumlah kiriman = %d, want 1", len(sends))
	}
	if sends[0].Phone != "+6285550001111" {
		t.Errorf("phone = %q", sends[0].Phone)
	}
	if sends[0].Auth != "" {
		t.Errorf("tanpa api key, Authorization harus kosong: %q", sends[0].Auth)
	}
	if !strings.Contains(sends[0].Message, "menunggu validasi wali kelas") {
		t.Errorf("pesan = %q", sends[0].Message)
	}
}

func TestSendWithoutRecipientsIsNoop(t *testing.T) {
	db := newTestDB(t)
	srv, got := newGateway(t)
	defer srv.Close()

	n := NewWhatsAppNotifier(db, srv.URL, "k")
	err := n.Send(context.Background(), logService.Notification{
		RecipientRole: constants.RoleParent,
		StudentID:     uuid.New(),
		LogDate:       time.Now(),
		NewStatus:     "draft",
	})
	if err != nil {
		t.Fatalf("Send() tanpa penerima harus no-op, error = %v", err)
	}
	if len(got()) != 0 {
		t.Errorf("gateway terpanggil %d kali", len(got()))
	}
}

func TestSendGatewayFailureReturnsError(t *testing.T) {
	db := newTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	studentID := createUser(t, db, constants.RoleStudent, "")
	parentID := createUser(t, db, constants.RoleParent, "+628111")
	if err := db.Create(&guardianModel.GuardianStudentModel{
		GuardianStudentGuardianID: parentID,
		GuardianStudentStudentID:  studentID,
	}).Error; err != nil {
		t.Fatalf("link guardian: %v", err)
	}

	n := NewWhatsAppNotifier(db, srv.URL, "salah")
	err := n.Send(context.Background(), logService.Notification{
		RecipientRole: constants.RoleParent,
		StudentID:     studentID,
		LogDate:       time.Now(),
		NewStatus:     "draft",
	})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status 401", err)
	}
}

func TestRenderMessageCoversEveryStatus(t *testing.T) {
	notif := logService.Notification{
		LogDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}

	// Setiap status workflow punya kalimat khusus; hanya status asing
	// yang boleh jatuh ke pesan generik "berubah menjadi".
	for _, status := range []string{
		logModel.StatusDraft,
		logModel.StatusParentApproved,
		logModel.StatusTeacherValidated,
	} {
		notif.NewStatus = status
		msg := renderMessage(notif)
		if strings.Contains(msg, "berubah menjadi") {
			t.Errorf("status %q jatuh ke pesan generik: %q", status, msg)
		}
		if !strings.Contains(msg, "2024-05-03") {
			t.Errorf("status %q: tanggal hilang dari pesan %q", status, msg)
		}
	}

	notif.NewStatus = "status-asing"
	if msg := renderMessage(notif); !strings.Contains(msg, "berubah menjadi") {
		t.Errorf("status asing tidak memakai pesan generik: %q", msg)
	}
}

func TestNewNotifierPicksImplementation(t *testing.T) {
	db := newTestDB(t)

	if _, ok := NewNotifier(db, "", "").(LogNotifier); !ok {
		t.Error("tanpa gateway URL harus LogNotifier")
	}
	if _, ok := NewNotifier(db, "https://wa.example.com", "k").(*WhatsAppNotifier); !ok {
		t.Error("dengan gateway URL harus WhatsAppNotifier")
	}
}
