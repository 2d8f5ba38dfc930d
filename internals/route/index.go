// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"karakterku_backend/internals/configs"
	"karakterku_backend/internals/constants"
	logRoute "karakterku_backend/internals/features/character_logs/route"
	logService "karakterku_backend/internals/features/character_logs/service"
	notifService "karakterku_backend/internals/features/notifications/service"
	reportRoute "karakterku_backend/internals/features/reports/route"
	reportService "karakterku_backend/internals/features/reports/service"
	classRoute "karakterku_backend/internals/features/school/classes/route"
	guardianRoute "karakterku_backend/internals/features/school/guardians/route"
	scoreRoute "karakterku_backend/internals/features/scores/route"
	scoreService "karakterku_backend/internals/features/scores/service"
	authRoute "karakterku_backend/internals/features/users/auth/route"
	helperAuth "karakterku_backend/internals/helpers/auth"
	authMiddleware "karakterku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== SHARED SERVICES =====================
	notifier := notifService.NewNotifier(db, configs.WhatsappGatewayURL, configs.WhatsappGatewayKey)
	attributor := scoreService.NewScoreService(db)
	workflow := logService.NewLogWorkflowService(db, notifier, attributor)

	var narrative *reportService.Client
	if configs.NarrativeAPIURL != "" && configs.NarrativeAPIKey != "" {
		cl, err := reportService.NewClient(reportService.Config{
			BaseURL: configs.NarrativeAPIURL,
			APIKey:  configs.NarrativeAPIKey,
		})
		if err != nil {
			log.Printf("[WARN] narrative client nonaktif: %v", err)
		} else {
			narrative = cl
		}
	}

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// Blacklist dicek DULUAN: token hasil logout ditolak sebelum
	// sempat lolos verifikasi JWT.
	blacklistGuard := helperAuth.MiddlewareBlacklistOnly(db, configs.JWTSecret)
	jwtGuard := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== STUDENT =====================
	log.Println("[INFO] Setting up STUDENT group...")
	student := app.Group("/api/student",
		blacklistGuard,
		jwtGuard,
		authMiddleware.OnlyRoles(constants.RoleErrorStudent("jurnal karakter"), constants.StudentOnly...),
	)
	logRoute.CharacterLogStudentRoutes(student, workflow)

	// ===================== PARENT =====================
	log.Println("[INFO] Setting up PARENT group...")
	parent := app.Group("/api/parent",
		blacklistGuard,
		jwtGuard,
		authMiddleware.OnlyRoles(constants.RoleErrorParent("approve jurnal"), constants.ParentOnly...),
	)
	logRoute.CharacterLogParentRoutes(parent, workflow)

	// ===================== TEACHER =====================
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/teacher",
		blacklistGuard,
		jwtGuard,
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("validasi jurnal"), constants.TeacherAndAbove...),
	)
	logRoute.CharacterLogTeacherRoutes(teacher, workflow)
	reportRoute.ReportTeacherRoutes(teacher, db, workflow, narrative)

	// ===================== CONTRIBUTOR =====================
	log.Println("[INFO] Setting up CONTRIBUTOR group...")
	contributor := app.Group("/api/contributor",
		blacklistGuard,
		jwtGuard,
		authMiddleware.OnlyRoles(constants.RoleErrorContributor("skor perilaku"), constants.ContributorAndAbove...),
	)
	scoreRoute.BehaviorScoreContributorRoutes(contributor, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/admin",
		blacklistGuard,
		jwtGuard,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen sekolah"), constants.AdminOnly...),
	)
	classRoute.ClassAdminRoutes(admin, db)
	guardianRoute.GuardianAdminRoutes(admin, db)

	// ===================== MISC =====================
	app.Get("/api/uptime", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uptime": time.Since(startTime).String()})
	})
}
