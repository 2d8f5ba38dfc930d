package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel: kelas dengan satu wali kelas (homeroom teacher).
// Wali kelas adalah satu-satunya guru yang boleh memvalidasi jurnal
// siswa di kelasnya.
type ClassModel struct {
	ClassID                uuid.UUID  `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`
	ClassName              string     `gorm:"size:100;not null;uniqueIndex;column:class_name" json:"class_name"`
	ClassHomeroomTeacherID *uuid.UUID `gorm:"type:uuid;index;column:class_homeroom_teacher_id" json:"class_homeroom_teacher_id,omitempty"`
	ClassAcademicYear      string     `gorm:"size:20;not null;column:class_academic_year" json:"class_academic_year"`

	ClassCreatedAt time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time      `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at,omitempty"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}
