// file: internals/features/character_logs/controller/student_log_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/character_logs/dto"
	"karakterku_backend/internals/features/character_logs/service"
	helper "karakterku_backend/internals/helpers"
)

type StudentLogController struct {
	Workflow *service.LogWorkflowService
}

func NewStudentLogController(wf *service.LogWorkflowService) *StudentLogController {
	return &StudentLogController{Workflow: wf}
}

/* ===================== SUBMIT PLAN ===================== */
// POST /student/character-logs/plan
func (ctrl *StudentLogController) SubmitPlan(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	day, _ := time.Parse("2006-01-02", req.LogDate)

	entry, err := ctrl.Workflow.SubmitPlan(c.UserContext(), actorID, actorID, day, req.Record)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonCreated(c, "Rencana harian berhasil dikirim", dto.NewCharacterLogResponse(*entry))
}

/* ===================== SUBMIT EXECUTION ===================== */
// POST /student/character-logs/execution
func (ctrl *StudentLogController) SubmitExecution(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitExecutionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	day, _ := time.Parse("2006-01-02", req.LogDate)

	entry, err := ctrl.Workflow.SubmitExecution(c.UserContext(), actorID, actorID, day, req.Record)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonUpdated(c, "Realisasi harian berhasil dikirim", dto.NewCharacterLogResponse(*entry))
}

/* ===================== GET BY DATE ===================== */
// GET /student/character-logs?date=YYYY-MM-DD
func (ctrl *StudentLogController) GetByDate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?date= wajib format YYYY-MM-DD")
	}

	entry, err := ctrl.Workflow.GetByDate(c.UserContext(), actorID, constants.RoleStudent, actorID, day)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Jurnal ditemukan", dto.NewCharacterLogResponse(*entry))
}
