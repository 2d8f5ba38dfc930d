package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassStudentModel: keanggotaan siswa di kelas.
// Satu siswa maksimal satu kelas aktif (unique index di student_id).
type ClassStudentModel struct {
	ClassStudentID        uuid.UUID `gorm:"type:uuid;primaryKey;column:class_student_id" json:"class_student_id"`
	ClassStudentClassID   uuid.UUID `gorm:"type:uuid;not null;index;column:class_student_class_id" json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:class_student_student_id" json:"class_student_student_id"`

	ClassStudentCreatedAt time.Time `gorm:"column:class_student_created_at;autoCreateTime" json:"class_student_created_at"`
}

func (ClassStudentModel) TableName() string { return "class_students" }

func (m *ClassStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassStudentID == uuid.Nil {
		m.ClassStudentID = uuid.New()
	}
	return nil
}
