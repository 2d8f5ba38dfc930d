package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BehaviorScoreModel: skor/misi perilaku dari kontributor.
// Record terpisah dari CharacterLog: pengisian skor TIDAK pernah
// mengubah status jurnal (pipeline approve/validate murni wali+guru).
// Slot dibuat otomatis saat jurnal tervalidasi, kontributor tinggal
// mengisi skor & misinya.
type BehaviorScoreModel struct {
	BehaviorScoreID        uuid.UUID `gorm:"type:uuid;primaryKey;column:behavior_score_id" json:"behavior_score_id"`
	BehaviorScoreLogID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:behavior_score_log_id" json:"behavior_score_log_id"`
	BehaviorScoreStudentID uuid.UUID `gorm:"type:uuid;not null;index;column:behavior_score_student_id" json:"behavior_score_student_id"`
	BehaviorScoreLogDate   time.Time `gorm:"type:date;not null;column:behavior_score_log_date" json:"behavior_score_log_date"`

	// nil = slot belum diisi kontributor
	BehaviorScoreContributorID *uuid.UUID `gorm:"type:uuid;index;column:behavior_score_contributor_id" json:"behavior_score_contributor_id,omitempty"`
	BehaviorScorePoints        *int       `gorm:"column:behavior_score_points" json:"behavior_score_points,omitempty"`
	BehaviorScoreMission       *string    `gorm:"column:behavior_score_mission" json:"behavior_score_mission,omitempty"`
	BehaviorScoreNotes         *string    `gorm:"column:behavior_score_notes" json:"behavior_score_notes,omitempty"`
	BehaviorScoreScoredAt      *time.Time `gorm:"column:behavior_score_scored_at" json:"behavior_score_scored_at,omitempty"`

	BehaviorScoreCreatedAt time.Time `gorm:"column:behavior_score_created_at;autoCreateTime" json:"behavior_score_created_at"`
	BehaviorScoreUpdatedAt time.Time `gorm:"column:behavior_score_updated_at;autoUpdateTime" json:"behavior_score_updated_at"`
}

func (BehaviorScoreModel) TableName() string { return "behavior_scores" }

func (m *BehaviorScoreModel) BeforeCreate(tx *gorm.DB) error {
	if m.BehaviorScoreID == uuid.Nil {
		m.BehaviorScoreID = uuid.New()
	}
	return nil
}
