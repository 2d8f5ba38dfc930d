// file: internals/features/scores/service/score_service.go
package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	logModel "karakterku_backend/internals/features/character_logs/model"
	"karakterku_backend/internals/features/scores/model"
)

// ScoreService membuat slot skor saat jurnal tervalidasi dan
// menyediakan pengisian oleh kontributor.
type ScoreService struct {
	DB *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{DB: db}
}

// AttributeValidated: dipanggil workflow (async) setelah validasi guru.
// Idempoten terhadap retry: unique index di log_id, duplikat diabaikan.
func (s *ScoreService) AttributeValidated(ctx context.Context, entry logModel.CharacterLogModel) error {
	slot := model.BehaviorScoreModel{
		BehaviorScoreLogID:     entry.CharacterLogID,
		BehaviorScoreStudentID: entry.CharacterLogStudentID,
		BehaviorScoreLogDate:   entry.CharacterLogDate,
	}
	err := s.DB.WithContext(ctx).Create(&slot).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
