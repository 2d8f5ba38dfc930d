package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authCtrl "karakterku_backend/internals/features/users/auth/controller"
	"karakterku_backend/internals/middlewares"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authCtrl.NewAuthController(db)

	g := app.Group("/api/auth")
	g.Post("/register", ctrl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	g.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	g.Post("/refresh-token", ctrl.RefreshToken)
	g.Post("/logout", ctrl.Logout)
}
