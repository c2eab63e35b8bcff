package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"campus-events/backend/config"
	"campus-events/backend/internal/api/handler"
	"campus-events/backend/internal/api/middleware"
	"campus-events/backend/internal/dto"
	"campus-events/backend/pkg/jwt"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/redis"
)

// Setup builds the gin engine. rdb and m may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Fatal("register validators failed", zap.Error(err))
		}
	}

	// Keep the interface nil when Redis is absent.
	var blacklist middleware.Blacklist
	if rdb != nil {
		blacklist = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	if cfg.Metrics.Enabled && m != nil {
		r.Use(middleware.Metrics(m))
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	strict := middleware.RateLimit(rdb, 10, time.Minute)

	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/login", strict, h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/forgot-password", strict, h.Auth.ForgotPassword)
			auth.POST("/reset-password/:token", h.Auth.ResetPassword)
		}

		public := v1.Group("", middleware.OptionalJWT(jwtMgr, blacklist))
		{
			public.GET("/events", h.Event.List)
			public.GET("/events/:id", h.Event.Get)
			public.GET("/registrations/lookup", h.Registration.Lookup)
		}

		authorized := v1.Group("", middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/notifications", h.Notification.Fetch)
			authorized.GET("/notifications/unread", h.Notification.Unread)

			authorized.GET("/certificates/:id", h.Certificate.Download)

			authorized.GET("/timetable", h.Academic.MyTimetable)
			authorized.GET("/timetable/ics", h.Academic.TimetableICS)
			authorized.GET("/exams/ics", h.Academic.ExamsICS)

			// student
			student := authorized.Group("", middleware.RoleAuth("student"))
			{
				student.GET("/student/dashboard", h.Dashboard.Student)
				student.POST("/events/:id/register", h.Registration.Register)
				student.POST("/events/:id/feedback", h.Feedback.Submit)
				student.GET("/registrations/:id/qr", h.Registration.QRCode)
				student.DELETE("/registrations/:id", h.Registration.Cancel)
				student.POST("/registrations/:id/onduty", h.OnDuty.Request)
				student.GET("/exams", h.Academic.MyExams)
			}

			// faculty
			faculty := authorized.Group("", middleware.RoleAuth("faculty"))
			{
				faculty.GET("/faculty/dashboard", h.Dashboard.Faculty)
				faculty.GET("/faculty/events/:id/attendance", h.Export.ExportAttendance)
				faculty.POST("/attendance/scan", middleware.RateLimit(rdb, 120, time.Minute), h.Attendance.Scan)
			}

			// admin
			admin := authorized.Group("/admin", middleware.AdminOnly())
			{
				admin.GET("/dashboard", h.Dashboard.Admin)

				admin.POST("/events", h.Event.Create)
				admin.DELETE("/events/:id", h.Event.Delete)
				admin.PUT("/events/:id/status", h.Event.SetStatus)

				admin.GET("/users", h.User.ListUsers)
				admin.POST("/faculty", h.User.RegisterFaculty)
				admin.PUT("/faculty/:id", h.User.UpdateFaculty)
				admin.DELETE("/faculty/:id", h.User.DeleteFaculty)
				admin.PUT("/students/:id", h.User.UpdateStudent)
				admin.DELETE("/students/:id", h.User.DeleteStudent)
				admin.POST("/students/import", h.User.ImportStudents)

				admin.GET("/certificates", h.Certificate.ListPending)
				admin.POST("/certificates/:id/approve", h.Certificate.Approve)

				admin.GET("/onduty", h.OnDuty.List)
				admin.POST("/onduty/:id", h.OnDuty.Respond)

				admin.GET("/feedback", h.Feedback.List)

				admin.GET("/courses", h.Academic.ListCourses)
				admin.POST("/courses", h.Academic.CreateCourse)
				admin.DELETE("/courses/:id", h.Academic.DeleteCourse)
				admin.GET("/timetable", h.Academic.ListTimetable)
				admin.POST("/timetable", h.Academic.CreateSlot)
				admin.DELETE("/timetable/:id", h.Academic.DeleteSlot)
				admin.GET("/exams", h.Academic.ListExams)
				admin.POST("/exams", h.Academic.CreateExam)
				admin.DELETE("/exams/:id", h.Academic.DeleteExam)
			}
		}
	}

	return r
}
