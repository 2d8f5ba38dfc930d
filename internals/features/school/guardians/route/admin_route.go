package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	guardianCtrl "karakterku_backend/internals/features/school/guardians/controller"
)

func GuardianAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := guardianCtrl.NewGuardianController(db)

	g := r.Group("/guardian-links")
	g.Post("/", ctrl.CreateLink)
	g.Get("/", ctrl.ListLinks)
	g.Delete("/:id", ctrl.DeleteLink)
}
