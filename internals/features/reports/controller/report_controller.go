// file: internals/features/reports/controller/report_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	logService "karakterku_backend/internals/features/character_logs/service"
	reportService "karakterku_backend/internals/features/reports/service"
	userModel "karakterku_backend/internals/features/users/user/model"
	helper "karakterku_backend/internals/helpers"
)

type ReportController struct {
	DB        *gorm.DB
	Workflow  *logService.LogWorkflowService
	Narrative *reportService.Client // nil = API belum dikonfigurasi
}

func NewReportController(db *gorm.DB, wf *logService.LogWorkflowService, narrative *reportService.Client) *ReportController {
	return &ReportController{DB: db, Workflow: wf, Narrative: narrative}
}

/* ===================== NARRATIVE ===================== */
// GET /teacher/reports/narrative?student_id=...&from=YYYY-MM-DD&to=YYYY-MM-DD
func (ctrl *ReportController) GetNarrative(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorRole, err := helper.GetUserRoleFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?student_id= wajib UUID")
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?from= wajib format YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query ?to= wajib format YYYY-MM-DD")
	}
	if to.Before(from) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Rentang tanggal terbalik")
	}

	if err := ctrl.Workflow.AuthorizeRead(c.UserContext(), actorID, actorRole, studentID); err != nil {
		var fe *logService.ForbiddenError
		if errors.As(err, &fe) {
			return helper.JsonError(c, fiber.StatusForbidden, fe.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan internal")
	}

	if ctrl.Narrative == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Laporan naratif belum dikonfigurasi")
	}

	logs, err := ctrl.Workflow.ListByStudentRange(c.UserContext(), studentID, from, to)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil jurnal")
	}
	if len(logs) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Tidak ada jurnal pada rentang tanggal ini")
	}

	var student userModel.UserModel
	if err := ctrl.DB.Select("id", "user_name").Where("id = ?", studentID).First(&student).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	}

	summary, err := ctrl.Narrative.Summarize(c.UserContext(), student.UserName, from, to, logs)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat narasi: "+err.Error())
	}

	return helper.JsonOK(c, "Laporan naratif berhasil dibuat", fiber.Map{
		"student_id": studentID,
		"from":       from.Format("2006-01-02"),
		"to":         to.Format("2006-01-02"),
		"narrative":  summary,
		"log_count":  len(logs),
	})
}
