package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status jurnal karakter, hanya maju, tidak pernah mundur:
// draft -> parent_approved -> teacher_validated
const (
	StatusDraft            = "draft"
	StatusParentApproved   = "parent_approved"
	StatusTeacherValidated = "teacher_validated"
)

// ActivityRecord: tujuh bidang pembiasaan harian.
// Dipakai dua kali per jurnal (rencana & realisasi) via embedded prefix.
// Set tag (ibadah/belajar/sosial) disimpan sebagai JSON di satu kolom,
// diserialisasi hanya di boundary persistensi.
type ActivityRecord struct {
	WakeUpTime        string                      `gorm:"size:5;column:wake_up_time" json:"wake_up_time"`
	WorshipActivities datatypes.JSONSlice[string] `gorm:"column:worship_activities" json:"worship_activities"`
	WorshipDetail     string                      `gorm:"column:worship_detail" json:"worship_detail"`
	SportActivity     string                      `gorm:"size:100;column:sport_activity" json:"sport_activity"`
	SportDetail       string                      `gorm:"column:sport_detail" json:"sport_detail"`
	MealDescription   string                      `gorm:"column:meal_description" json:"meal_description"`
	StudyActivities   datatypes.JSONSlice[string] `gorm:"column:study_activities" json:"study_activities"`
	StudyDetail       string                      `gorm:"column:study_detail" json:"study_detail"`
	SocialActivities  datatypes.JSONSlice[string] `gorm:"column:social_activities" json:"social_activities"`
	SocialDetail      string                      `gorm:"column:social_detail" json:"social_detail"`
	SleepTime         string                      `gorm:"size:5;column:sleep_time" json:"sleep_time"`
}

// CharacterLogModel: satu baris per (siswa, tanggal).
// Baris dibuat saat submit rencana; plan & execution tidak pernah
// ditimpa setelah submitted_at masing-masing terisi.
type CharacterLogModel struct {
	CharacterLogID        uuid.UUID `gorm:"type:uuid;primaryKey;column:character_log_id" json:"character_log_id"`
	CharacterLogStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_character_log_student_date;column:character_log_student_id" json:"character_log_student_id"`
	CharacterLogDate      time.Time `gorm:"type:date;not null;uniqueIndex:idx_character_log_student_date;column:character_log_date" json:"character_log_date"`

	// Denormalisasi kelas saat submit plan, untuk query "pending validasi"
	// per wali kelas tanpa join keanggotaan
	CharacterLogClassID *uuid.UUID `gorm:"type:uuid;index:idx_character_log_class_status;column:character_log_class_id" json:"character_log_class_id,omitempty"`
	CharacterLogStatus  string     `gorm:"type:varchar(20);not null;default:'draft';index:idx_character_log_class_status;column:character_log_status" json:"character_log_status"`

	Plan      ActivityRecord `gorm:"embedded;embeddedPrefix:character_log_plan_" json:"plan"`
	Execution ActivityRecord `gorm:"embedded;embeddedPrefix:character_log_execution_" json:"execution"`

	CharacterLogPlanSubmittedAt      *time.Time `gorm:"column:character_log_plan_submitted_at" json:"character_log_plan_submitted_at,omitempty"`
	CharacterLogExecutionSubmittedAt *time.Time `gorm:"column:character_log_execution_submitted_at" json:"character_log_execution_submitted_at,omitempty"`
	CharacterLogApprovedAt           *time.Time `gorm:"column:character_log_approved_at" json:"character_log_approved_at,omitempty"`
	CharacterLogValidatedAt          *time.Time `gorm:"column:character_log_validated_at" json:"character_log_validated_at,omitempty"`

	CharacterLogCreatedAt time.Time `gorm:"column:character_log_created_at;autoCreateTime" json:"character_log_created_at"`
	CharacterLogUpdatedAt time.Time `gorm:"column:character_log_updated_at;autoUpdateTime" json:"character_log_updated_at"`
}

func (CharacterLogModel) TableName() string { return "character_logs" }

func (m *CharacterLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.CharacterLogID == uuid.Nil {
		m.CharacterLogID = uuid.New()
	}
	return nil
}

// HasExecution: realisasi sudah dikirim atau belum
func (m *CharacterLogModel) HasExecution() bool {
	return m.CharacterLogExecutionSubmittedAt != nil
}
