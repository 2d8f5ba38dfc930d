// file: internals/features/school/guardians/controller/guardian_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/school/guardians/model"
	userModel "karakterku_backend/internals/features/users/user/model"
	helper "karakterku_backend/internals/helpers"
)

type GuardianController struct {
	DB *gorm.DB
}

func NewGuardianController(db *gorm.DB) *GuardianController {
	return &GuardianController{DB: db}
}

type createLinkRequest struct {
	GuardianID uuid.UUID `json:"guardian_id" validate:"required"`
	StudentID  uuid.UUID `json:"student_id" validate:"required"`
	Relation   string    `json:"relation" validate:"omitempty,oneof=ayah ibu wali"`
}

/* ===================== CREATE LINK ===================== */
// POST /admin/guardian-links
// Relasi wali<->siswa dibuat oleh admin (bukan oleh wali sendiri).
func (ctrl *GuardianController) CreateLink(c *fiber.Ctx) error {
	var req createLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	// Guard role kedua sisi relasi
	if err := ctrl.mustBeRole(req.GuardianID, constants.RoleParent); err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.mustBeRole(req.StudentID, constants.RoleStudent); err != nil {
		return helper.FromFiberError(c, err)
	}

	link := model.GuardianStudentModel{
		GuardianStudentGuardianID: req.GuardianID,
		GuardianStudentStudentID:  req.StudentID,
	}
	if req.Relation != "" {
		link.GuardianStudentRelation = req.Relation
	}

	if err := ctrl.DB.Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Relasi wali-siswa sudah ada")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat relasi")
	}

	return helper.JsonCreated(c, "Relasi wali-siswa berhasil dibuat", link)
}

/* ===================== DELETE LINK ===================== */
// DELETE /admin/guardian-links/:id
func (ctrl *GuardianController) DeleteLink(c *fiber.Ctx) error {
	linkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID relasi tidak valid")
	}

	res := ctrl.DB.Where("guardian_student_id = ?", linkID).
		Delete(&model.GuardianStudentModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus relasi")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Relasi tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Relasi wali-siswa dihapus", fiber.Map{"guardian_student_id": linkID})
}

/* ===================== LIST BY GUARDIAN ===================== */
// GET /admin/guardian-links?guardian_id=...
func (ctrl *GuardianController) ListLinks(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.GuardianStudentModel{})
	if s := c.Query("guardian_id"); s != "" {
		gid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "guardian_id tidak valid")
		}
		q = q.Where("guardian_student_guardian_id = ?", gid)
	}

	var rows []model.GuardianStudentModel
	if err := q.Order("guardian_student_created_at DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil relasi")
	}
	return helper.JsonOK(c, "Daftar relasi wali-siswa", rows)
}

func (ctrl *GuardianController) mustBeRole(userID uuid.UUID, role string) error {
	var usr userModel.UserModel
	if err := ctrl.DB.Select("id", "role").Where("id = ?", userID).First(&usr).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "User tidak ditemukan")
	}
	if usr.Role != role {
		return fiber.NewError(fiber.StatusBadRequest, "Role user tidak sesuai: butuh "+role)
	}
	return nil
}
