package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuardianStudentModel: relasi wali/ortu -> siswa.
// Relasi dibuat oleh admin; approve jurnal hanya boleh oleh wali
// yang tertaut ke siswa pemilik jurnal.
type GuardianStudentModel struct {
	GuardianStudentID         uuid.UUID `gorm:"type:uuid;primaryKey;column:guardian_student_id" json:"guardian_student_id"`
	GuardianStudentGuardianID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_guardian_student_pair;column:guardian_student_guardian_id" json:"guardian_student_guardian_id"`
	GuardianStudentStudentID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_guardian_student_pair;column:guardian_student_student_id" json:"guardian_student_student_id"`
	// hubungan: ayah/ibu/wali
	GuardianStudentRelation string `gorm:"size:30;not null;default:'wali';column:guardian_student_relation" json:"guardian_student_relation"`

	GuardianStudentCreatedAt time.Time `gorm:"column:guardian_student_created_at;autoCreateTime" json:"guardian_student_created_at"`
}

func (GuardianStudentModel) TableName() string { return "guardian_students" }

func (m *GuardianStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.GuardianStudentID == uuid.Nil {
		m.GuardianStudentID = uuid.New()
	}
	return nil
}
