// file: internals/features/character_logs/controller/parent_log_controller.go
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

type ParentLogController struct {
	Workflow *service.LogWorkflowService
}

func NewParentLogController(wf *service.LogWorkflowService) *ParentLogController {
	return &ParentLogController{Workflow: wf}
}

/* ===================== LIST PENDING ===================== */
// GET /parent/character-logs/pending
func (ctrl *ParentLogController) ListPendingApproval(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rows, err := ctrl.Workflow.ListPendingApproval(c.UserContext(), actorID)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Jurnal menunggu approve", dto.NewCharacterLogResponses(rows))
}

/* ===================== APPROVE ===================== */
// POST /parent/character-logs/:id/approve
func (ctrl *ParentLogController) Approve(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jurnal tidak valid")
	}

	entry, err := ctrl.Workflow.Approve(c.UserContext(), actorID, logID)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonUpdated(c, "Jurnal berhasil di-approve", dto.NewCharacterLogResponse(*entry))
}

/* ===================== GET BY DATE (anak tertaut) ===================== */
// GET /parent/students/:student_id/character-logs?date=YYYY-MM-DD
func (ctrl *ParentLogController) GetStudentLogByDate(c *fiber.Ctx) error {
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

	entry, err := ctrl.Workflow.GetByDate(c.UserContext(), actorID, constants.RoleParent, studentID, day)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Jurnal ditemukan", dto.NewCharacterLogResponse(*entry))
}
