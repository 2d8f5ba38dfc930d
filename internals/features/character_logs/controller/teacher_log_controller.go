// file: internals/features/character_logs/controller/teacher_log_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/character_logs/dto"
	"karakterku_backend/internals/features/character_logs/service"
	helper "karakterku_backend/internals/helpers"
)

type TeacherLogController struct {
	Workflow *service.LogWorkflowService
}

func NewTeacherLogController(wf *service.LogWorkflowService) *TeacherLogController {
	return &TeacherLogController{Workflow: wf}
}

/* ===================== LIST PENDING ===================== */
// GET /teacher/character-logs/pending
// Tertua dulu, supaya divalidasi urut masuk.
func (ctrl *TeacherLogController) ListPendingValidation(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rows, err := ctrl.Workflow.ListPendingValidation(c.UserContext(), actorID)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Jurnal menunggu validasi", dto.NewCharacterLogResponses(rows))
}

/* ===================== VALIDATE ===================== */
// POST /teacher/character-logs/:id/validate
func (ctrl *TeacherLogController) Validate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jurnal tidak valid")
	}

	entry, err := ctrl.Workflow.Validate(c.UserContext(), actorID, logID)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonUpdated(c, "Jurnal berhasil divalidasi", dto.NewCharacterLogResponse(*entry))
}

/* ===================== GET BY DATE (siswa binaan) ===================== */
// GET /teacher/students/:student_id/character-logs?date=YYYY-MM-DD
func (ctrl *TeacherLogController) GetStudentLogByDate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?date= wajib format YYYY-MM-DD")
	}

	entry, err := ctrl.Workflow.GetByDate(c.UserContext(), actorID, constants.RoleTeacher, studentID, day)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Jurnal ditemukan", dto.NewCharacterLogResponse(*entry))
}
