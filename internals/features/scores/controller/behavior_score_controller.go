// file: internals/features/scores/controller/behavior_score_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"karakterku_backend/internals/features/scores/dto"
	"karakterku_backend/internals/features/scores/model"
	helper "karakterku_backend/internals/helpers"
)

type BehaviorScoreController struct {
	DB *gorm.DB
}

func NewBehaviorScoreController(db *gorm.DB) *BehaviorScoreController {
	return &BehaviorScoreController{DB: db}
}

/* ===================== LIST PENDING ===================== */
// GET /contributor/behavior-scores/pending
// Slot yang belum diisi, tertua dulu.
func (ctrl *BehaviorScoreController) ListPending(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	base := ctrl.DB.Model(&model.BehaviorScoreModel{}).
		Where("behavior_score_points IS NULL")
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil slot skor")
	}

	var rows []model.BehaviorScoreModel
	if err := ctrl.DB.
		Where("behavior_score_points IS NULL").
		Order("behavior_score_log_date ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil slot skor")
	}

	return helper.JsonList(c, "Slot skor menunggu pengisian", rows, helper.BuildPagination(paging, total))
}

/* ===================== FILL ===================== */
// PATCH /contributor/behavior-scores/:id
// Sekali isi: slot yang sudah terisi ditolak 409.
func (ctrl *BehaviorScoreController) Fill(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	scoreID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID skor tidak valid")
	}

	var req dto.FillBehaviorScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	now := time.Now()
	res := ctrl.DB.Model(&model.BehaviorScoreModel{}).
		Where("behavior_score_id = ?", scoreID).
		Where("behavior_score_points IS NULL").
		Updates(map[string]any{
			"behavior_score_contributor_id": actorID,
			"behavior_score_points":         req.Points,
			"behavior_score_mission":        req.Mission,
			"behavior_score_notes":          req.Notes,
			"behavior_score_scored_at":      now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengisi skor")
	}
	if res.RowsAffected == 0 {
		var existing model.BehaviorScoreModel
		if err := ctrl.DB.Where("behavior_score_id = ?", scoreID).First(&existing).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Slot skor tidak ditemukan")
		}
		return helper.JsonConflictError(c, "Slot skor sudah diisi", "scored")
	}

	var updated model.BehaviorScoreModel
	if err := ctrl.DB.Where("behavior_score_id = ?", scoreID).First(&updated).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca skor")
	}
	return helper.JsonUpdated(c, "Skor perilaku berhasil diisi", updated)
}

/* ===================== LIST BY STUDENT ===================== */
// GET /contributor/behavior-scores?student_id=...
func (ctrl *BehaviorScoreController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?student_id= wajib UUID")
	}

	var rows []model.BehaviorScoreModel
	if err := ctrl.DB.
		Where("behavior_score_student_id = ?", studentID).
		Order("behavior_score_log_date DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil skor")
	}
	return helper.JsonOK(c, "Daftar skor perilaku", rows)
}
