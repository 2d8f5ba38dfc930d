package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classCtrl "karakterku_backend/internals/features/school/classes/controller"
)

func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := classCtrl.NewClassController(db)

	g := r.Group("/classes")
	g.Post("/", ctrl.CreateClass)
	g.Get("/", ctrl.ListClasses)
	g.Patch("/:id/homeroom", ctrl.AssignHomeroom)
	g.Post("/:id/students", ctrl.EnrollStudent)
}
