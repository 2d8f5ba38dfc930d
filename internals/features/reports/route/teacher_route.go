package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	logService "karakterku_backend/internals/features/character_logs/service"
	reportCtrl "karakterku_backend/internals/features/reports/controller"
	reportService "karakterku_backend/internals/features/reports/service"
)

func ReportTeacherRoutes(r fiber.Router, db *gorm.DB, wf *logService.LogWorkflowService, narrative *reportService.Client) {
	ctrl := reportCtrl.NewReportController(db, wf, narrative)

	g := r.Group("/reports")
	g.Get("/narrative", ctrl.GetNarrative)
}
