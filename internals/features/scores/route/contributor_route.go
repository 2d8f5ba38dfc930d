package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scoreCtrl "karakterku_backend/internals/features/scores/controller"
)

func BehaviorScoreContributorRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := scoreCtrl.NewBehaviorScoreController(db)

	g := r.Group("/behavior-scores")
	g.Get("/pending", ctrl.ListPending)
	g.Get("/", ctrl.ListByStudent)
	g.Patch("/:id", ctrl.Fill)
}
