// file: internals/features/school/classes/controller/class_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/school/classes/dto"
	"karakterku_backend/internals/features/school/classes/model"
	userModel "karakterku_backend/internals/features/users/user/model"
	helper "karakterku_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /admin/classes
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	if req.HomeroomTeacherID != nil {
		if err := ctrl.mustBeRole(*req.HomeroomTeacherID, constants.RoleTeacher); err != nil {
			return helper.FromFiberError(c, err)
		}
	}

	mdl := req.ToModel()
	if err := ctrl.DB.Create(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Nama kelas sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kelas")
	}

	return helper.JsonCreated(c, "Kelas berhasil dibuat", dto.NewClassResponse(mdl))
}

/* ===================== LIST ===================== */
// GET /admin/classes
func (ctrl *ClassController) ListClasses(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&model.ClassModel{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}

	var rows []model.ClassModel
	if err := ctrl.DB.
		Order("class_name ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}

	out := make([]dto.ClassResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NewClassResponse(r))
	}
	return helper.JsonList(c, "Daftar kelas", out, helper.BuildPagination(paging, total))
}

/* ===================== ASSIGN HOMEROOM ===================== */
// PATCH /admin/classes/:id/homeroom
func (ctrl *ClassController) AssignHomeroom(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var req dto.AssignHomeroomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	if err := ctrl.mustBeRole(req.HomeroomTeacherID, constants.RoleTeacher); err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.Model(&model.ClassModel{}).
		Where("class_id = ?", classID).
		Update("class_homeroom_teacher_id", req.HomeroomTeacherID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah wali kelas")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}

	return helper.JsonUpdated(c, "Wali kelas berhasil diubah", fiber.Map{
		"class_id":                  classID,
		"class_homeroom_teacher_id": req.HomeroomTeacherID,
	})
}

/* ===================== ENROLL STUDENT ===================== */
// POST /admin/classes/:id/students
func (ctrl *ClassController) EnrollStudent(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	if err := ctrl.mustBeRole(req.StudentID, constants.RoleStudent); err != nil {
		return helper.FromFiberError(c, err)
	}

	var cls model.ClassModel
	if err := ctrl.DB.Where("class_id = ?", classID).First(&cls).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}

	member := model.ClassStudentModel{
		ClassStudentClassID:   classID,
		ClassStudentStudentID: req.StudentID,
	}
	if err := ctrl.DB.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Siswa sudah terdaftar di kelas lain")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mendaftarkan siswa")
	}

	return helper.JsonCreated(c, "Siswa berhasil didaftarkan ke kelas", member)
}

func (ctrl *ClassController) mustBeRole(userID uuid.UUID, role string) error {
	var usr userModel.UserModel
	if err := ctrl.DB.Select("id", "role").Where("id = ?", userID).First(&usr).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "User tidak ditemukan")
	}
	if usr.Role != role {
		return fiber.NewError(fiber.StatusBadRequest, "Role user tidak sesuai: butuh "+role)
	}
	return nil
}
