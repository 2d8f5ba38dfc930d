// file: internals/features/character_logs/service/workflow_service.go
//
// LogWorkflowService memusatkan seluruh transisi status jurnal karakter.
// Controller/route TIDAK pernah mengubah status langsung, semuanya lewat
// empat operasi mutasi di sini. Setiap transisi adalah satu conditional
// write atomik (INSERT dijaga unique index, UPDATE dijaga klausa WHERE +
// RowsAffected), jadi dua request balapan tidak bisa sama-sama lolos
// precondition yang sama.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/character_logs/dto"
	"karakterku_backend/internals/features/character_logs/model"
	classModel "karakterku_backend/internals/features/school/classes/model"
	guardianModel "karakterku_backend/internals/features/school/guardians/model"
	helper "karakterku_backend/internals/helpers"
)

/* =========================================================
 * Kolaborator eksternal (best-effort, tidak pernah
 * membatalkan transisi yang sudah commit)
 * ========================================================= */

type Notification struct {
	RecipientRole string
	StudentID     uuid.UUID
	LogDate       time.Time
	NewStatus     string
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// ScoreAttributor dipanggil setelah validasi guru sukses.
type ScoreAttributor interface {
	AttributeValidated(ctx context.Context, logEntry model.CharacterLogModel) error
}

/* =========================================================
 * Service
 * ========================================================= */

type LogWorkflowService struct {
	DB         *gorm.DB
	Notifier   Notifier
	Attributor ScoreAttributor
}

func NewLogWorkflowService(db *gorm.DB, notifier Notifier, attributor ScoreAttributor) *LogWorkflowService {
	return &LogWorkflowService{DB: db, Notifier: notifier, Attributor: attributor}
}

/* ===================== SUBMIT PLAN ===================== */

// SubmitPlan membuat jurnal (siswa, tanggal) sekaligus mengisi rencananya.
// Submit ganda ditolak ConflictError, tidak pernah menimpa diam-diam.
func (s *LogWorkflowService) SubmitPlan(ctx context.Context, actorID, studentID uuid.UUID, date time.Time, rec dto.ActivityRecordRequest) (*model.CharacterLogModel, error) {
	if actorID != studentID {
		return nil, errForbiddenUniform
	}
	if err := helper.Validate(rec); err != nil {
		return nil, &ValidationError{Fields: helper.ValidationErrorsToMap(err)}
	}

	day := truncateToDate(date)
	now := time.Now()

	entry := model.CharacterLogModel{
		CharacterLogStudentID:       studentID,
		CharacterLogDate:            day,
		CharacterLogClassID:         s.lookupClassID(ctx, studentID),
		CharacterLogStatus:          model.StatusDraft,
		Plan:                        rec.ToRecord(),
		CharacterLogPlanSubmittedAt: &now,
	}

	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Baris sudah ada = rencana sudah pernah dikirim
			// (baris hanya lahir dari submit rencana)
			cur := s.currentStatus(ctx, studentID, day)
			return nil, &ConflictError{
				Message:       "Rencana untuk tanggal ini sudah dikirim",
				CurrentStatus: cur,
			}
		}
		return nil, err
	}

	return &entry, nil
}

/* ===================== SUBMIT EXECUTION ===================== */

// SubmitExecution mengisi realisasi. Harus setelah rencana, sekali saja.
func (s *LogWorkflowService) SubmitExecution(ctx context.Context, actorID, studentID uuid.UUID, date time.Time, rec dto.ActivityRecordRequest) (*model.CharacterLogModel, error) {
	if actorID != studentID {
		return nil, errForbiddenUniform
	}
	if err := helper.Validate(rec); err != nil {
		return nil, &ValidationError{Fields: helper.ValidationErrorsToMap(err)}
	}

	day := truncateToDate(date)
	now := time.Now()

	res := s.DB.WithContext(ctx).Model(&model.CharacterLogModel{}).
		Where("character_log_student_id = ? AND character_log_date = ?", studentID, day).
		Where("character_log_execution_submitted_at IS NULL").
		Updates(rec.ExecutionUpdateMap(now))
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Diagnosa kenapa guard gagal: belum ada jurnal, atau sudah terisi
		var existing model.CharacterLogModel
		err := s.DB.WithContext(ctx).
			Where("character_log_student_id = ? AND character_log_date = ?", studentID, day).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Rencana untuk tanggal ini belum dikirim"}
		}
		if err != nil {
			return nil, err
		}
		return nil, &ConflictError{
			Message:       "Realisasi untuk tanggal ini sudah dikirim",
			CurrentStatus: existing.CharacterLogStatus,
		}
	}

	var updated model.CharacterLogModel
	if err := s.DB.WithContext(ctx).
		Where("character_log_student_id = ? AND character_log_date = ?", studentID, day).
		First(&updated).Error; err != nil {
		return nil, err
	}

	// Kabari wali bahwa realisasi siap di-approve (best-effort)
	s.notifyAsync(Notification{
		RecipientRole: constants.RoleParent,
		StudentID:     studentID,
		LogDate:       day,
		NewStatus:     updated.CharacterLogStatus,
	})

	return &updated, nil
}

/* ===================== APPROVE (wali/ortu) ===================== */

func (s *LogWorkflowService) Approve(ctx context.Context, actorID, logID uuid.UUID) (*model.CharacterLogModel, error) {
	var entry model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_id = ?", logID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Seragam dengan kasus bukan-wali: jangan bocorkan eksistensi
		return nil, errForbiddenUniform
	}
	if err != nil {
		return nil, err
	}

	if !s.isLinkedGuardian(ctx, actorID, entry.CharacterLogStudentID) {
		return nil, errForbiddenUniform
	}

	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&model.CharacterLogModel{}).
		Where("character_log_id = ?", logID).
		Where("character_log_status = ?", model.StatusDraft).
		Where("character_log_execution_submitted_at IS NOT NULL").
		Updates(map[string]any{
			"character_log_status":      model.StatusParentApproved,
			"character_log_approved_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if entry.CharacterLogStatus == model.StatusDraft && !entry.HasExecution() {
			return nil, &ConflictError{
				Message:       "Realisasi belum dikirim, jurnal belum bisa di-approve",
				CurrentStatus: entry.CharacterLogStatus,
			}
		}
		return nil, &ConflictError{
			Message:       "Jurnal sudah melewati tahap approve",
			CurrentStatus: s.currentStatusByID(ctx, logID),
		}
	}

	entry.CharacterLogStatus = model.StatusParentApproved
	entry.CharacterLogApprovedAt = &now

	// Kabari wali kelas ada jurnal menunggu validasi (best-effort)
	s.notifyAsync(Notification{
		RecipientRole: constants.RoleTeacher,
		StudentID:     entry.CharacterLogStudentID,
		LogDate:       entry.CharacterLogDate,
		NewStatus:     model.StatusParentApproved,
	})

	return &entry, nil
}

/* ===================== VALIDATE (wali kelas) ===================== */

func (s *LogWorkflowService) Validate(ctx context.Context, actorID, logID uuid.UUID) (*model.CharacterLogModel, error) {
	var entry model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_id = ?", logID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errForbiddenUniform
	}
	if err != nil {
		return nil, err
	}

	if !s.isHomeroomTeacher(ctx, actorID, &entry) {
		return nil, errForbiddenUniform
	}

	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&model.CharacterLogModel{}).
		Where("character_log_id = ?", logID).
		Where("character_log_status = ?", model.StatusParentApproved).
		Updates(map[string]any{
			"character_log_status":       model.StatusTeacherValidated,
			"character_log_validated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{
			Message:       "Jurnal belum di-approve wali atau sudah tervalidasi",
			CurrentStatus: s.currentStatusByID(ctx, logID),
		}
	}

	entry.CharacterLogStatus = model.StatusTeacherValidated
	entry.CharacterLogValidatedAt = &now

	// Side effect best-effort: atribusi skor perilaku + notifikasi wali.
	// Gagal di sini tidak pernah membatalkan transisi yang sudah commit.
	if s.Attributor != nil {
		entryCopy := entry
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Attributor.AttributeValidated(ctx, entryCopy); err != nil {
				log.Printf("[ERROR] atribusi skor gagal log=%s: %v", entryCopy.CharacterLogID, err)
			}
		}()
	}
	s.notifyAsync(Notification{
		RecipientRole: constants.RoleParent,
		StudentID:     entry.CharacterLogStudentID,
		LogDate:       entry.CharacterLogDate,
		NewStatus:     model.StatusTeacherValidated,
	})

	return &entry, nil
}

/* ===================== READS ===================== */

// AuthorizeRead: pembacaan jurnal siswa diizinkan untuk siswa ybs,
// wali tertaut, wali kelasnya, dan admin. Error-nya seragam.
func (s *LogWorkflowService) AuthorizeRead(ctx context.Context, actorID uuid.UUID, actorRole string, studentID uuid.UUID) error {
	if !s.canReadStudent(ctx, actorID, actorRole, studentID) {
		return errForbiddenUniform
	}
	return nil
}

// GetByDate: jurnal milik (siswa, tanggal), atau NotFoundError.
func (s *LogWorkflowService) GetByDate(ctx context.Context, actorID uuid.UUID, actorRole string, studentID uuid.UUID, date time.Time) (*model.CharacterLogModel, error) {
	if err := s.AuthorizeRead(ctx, actorID, actorRole, studentID); err != nil {
		return nil, err
	}

	day := truncateToDate(date)
	var entry model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_student_id = ? AND character_log_date = ?", studentID, day).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Jurnal untuk tanggal ini belum ada"}
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPendingApproval: jurnal draft yang realisasinya sudah masuk,
// untuk semua siswa tertaut ke wali ybs. Terbaru dulu.
func (s *LogWorkflowService) ListPendingApproval(ctx context.Context, parentID uuid.UUID) ([]model.CharacterLogModel, error) {
	linkedStudents := s.DB.Model(&guardianModel.GuardianStudentModel{}).
		Select("guardian_student_student_id").
		Where("guardian_student_guardian_id = ?", parentID)

	var rows []model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_status = ?", model.StatusDraft).
		Where("character_log_execution_submitted_at IS NOT NULL").
		Where("character_log_student_id IN (?)", linkedStudents).
		Order("character_log_date DESC").
		Find(&rows).Error
	return rows, err
}

// ListPendingValidation: jurnal parent_approved untuk kelas-kelas yang
// diampu guru ybs. Tertua dulu, biar divalidasi urut masuk.
// Jurnal yang lahir sebelum siswanya masuk kelas punya class_id NULL;
// untuk itu jatuhkan ke keanggotaan sekarang, selaras isHomeroomTeacher,
// supaya jurnal yang boleh divalidasi juga pasti muncul di daftar.
func (s *LogWorkflowService) ListPendingValidation(ctx context.Context, teacherID uuid.UUID) ([]model.CharacterLogModel, error) {
	homeroomClasses := s.DB.Model(&classModel.ClassModel{}).
		Select("class_id").
		Where("class_homeroom_teacher_id = ?", teacherID)

	currentMembers := s.DB.Model(&classModel.ClassStudentModel{}).
		Select("class_student_student_id").
		Where("class_student_class_id IN (?)",
			s.DB.Model(&classModel.ClassModel{}).
				Select("class_id").
				Where("class_homeroom_teacher_id = ?", teacherID))

	var rows []model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_status = ?", model.StatusParentApproved).
		Where("character_log_class_id IN (?) OR (character_log_class_id IS NULL AND character_log_student_id IN (?))",
			homeroomClasses, currentMembers).
		Order("character_log_date ASC").
		Find(&rows).Error
	return rows, err
}

// ListByStudentRange: jurnal satu siswa pada rentang tanggal (read-only,
// dipakai laporan naratif)
func (s *LogWorkflowService) ListByStudentRange(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]model.CharacterLogModel, error) {
	var rows []model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Where("character_log_student_id = ?", studentID).
		Where("character_log_date >= ? AND character_log_date <= ?", truncateToDate(from), truncateToDate(to)).
		Order("character_log_date ASC").
		Find(&rows).Error
	return rows, err
}

/* ===================== INTERNAL ===================== */

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *LogWorkflowService) lookupClassID(ctx context.Context, studentID uuid.UUID) *uuid.UUID {
	var member classModel.ClassStudentModel
	err := s.DB.WithContext(ctx).
		Where("class_student_student_id = ?", studentID).
		First(&member).Error
	if err != nil {
		return nil
	}
	id := member.ClassStudentClassID
	return &id
}

func (s *LogWorkflowService) isLinkedGuardian(ctx context.Context, guardianID, studentID uuid.UUID) bool {
	var n int64
	s.DB.WithContext(ctx).Model(&guardianModel.GuardianStudentModel{}).
		Where("guardian_student_guardian_id = ? AND guardian_student_student_id = ?", guardianID, studentID).
		Count(&n)
	return n > 0
}

func (s *LogWorkflowService) isHomeroomTeacher(ctx context.Context, teacherID uuid.UUID, entry *model.CharacterLogModel) bool {
	classID := entry.CharacterLogClassID
	if classID == nil {
		// Jurnal lahir sebelum siswa masuk kelas: cek keanggotaan sekarang
		classID = s.lookupClassID(ctx, entry.CharacterLogStudentID)
		if classID == nil {
			return false
		}
	}
	var n int64
	s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ? AND class_homeroom_teacher_id = ?", *classID, teacherID).
		Count(&n)
	return n > 0
}

func (s *LogWorkflowService) canReadStudent(ctx context.Context, actorID uuid.UUID, actorRole string, studentID uuid.UUID) bool {
	switch actorRole {
	case constants.RoleAdmin:
		return true
	case constants.RoleStudent:
		return actorID == studentID
	case constants.RoleParent:
		return s.isLinkedGuardian(ctx, actorID, studentID)
	case constants.RoleTeacher:
		classID := s.lookupClassID(ctx, studentID)
		if classID == nil {
			return false
		}
		var n int64
		s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
			Where("class_id = ? AND class_homeroom_teacher_id = ?", *classID, actorID).
			Count(&n)
		return n > 0
	default:
		return false
	}
}

func (s *LogWorkflowService) currentStatus(ctx context.Context, studentID uuid.UUID, day time.Time) string {
	var entry model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Select("character_log_status").
		Where("character_log_student_id = ? AND character_log_date = ?", studentID, day).
		First(&entry).Error
	if err != nil {
		return ""
	}
	return entry.CharacterLogStatus
}

func (s *LogWorkflowService) currentStatusByID(ctx context.Context, logID uuid.UUID) string {
	var entry model.CharacterLogModel
	err := s.DB.WithContext(ctx).
		Select("character_log_status").
		Where("character_log_id = ?", logID).
		First(&entry).Error
	if err != nil {
		return ""
	}
	return entry.CharacterLogStatus
}

// notifyAsync: kirim notifikasi tanpa menunggu & tanpa memengaruhi
// hasil operasi. Context request sudah selesai saat goroutine jalan,
// jadi pakai context baru ber-timeout.
func (s *LogWorkflowService) notifyAsync(n Notification) {
	if s.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Notifier.Send(ctx, n); err != nil {
			log.Printf("[ERROR] notifikasi gagal (role=%s siswa=%s tgl=%s): %v",
				n.RecipientRole, n.StudentID, n.LogDate.Format("2006-01-02"), err)
		}
	}()
}
