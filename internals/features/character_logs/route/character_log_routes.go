// file: internals/features/character_logs/route/character_log_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"

	logCtrl "karakterku_backend/internals/features/character_logs/controller"
	logService "karakterku_backend/internals/features/character_logs/service"
)

func CharacterLogStudentRoutes(r fiber.Router, wf *logService.LogWorkflowService) {
	ctrl := logCtrl.NewStudentLogController(wf)

	g := r.Group("/character-logs")
	g.Post("/plan", ctrl.SubmitPlan)
	g.Post("/execution", ctrl.SubmitExecution)
	g.Get("/", ctrl.GetByDate)
}

func CharacterLogParentRoutes(r fiber.Router, wf *logService.LogWorkflowService) {
	ctrl := logCtrl.NewParentLogController(wf)

	g := r.Group("/character-logs")
	g.Get("/pending", ctrl.ListPendingApproval)
	g.Post("/:id/approve", ctrl.Approve)

	r.Get("/students/:student_id/character-logs", ctrl.GetStudentLogByDate)
}

func CharacterLogTeacherRoutes(r fiber.Router, wf *logService.LogWorkflowService) {
	ctrl := logCtrl.NewTeacherLogController(wf)

	g := r.Group("/character-logs")
	g.Get("/pending", ctrl.ListPendingValidation)
	g.Post("/:id/validate", ctrl.Validate)

	r.Get("/students/:student_id/character-logs", ctrl.GetStudentLogByDate)
}
