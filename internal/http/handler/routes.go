package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"govdocs/docs"
	"govdocs/internal/http/middleware"
	"govdocs/internal/service"
)

// Deps carries everything the routes need.
type Deps struct {
	Version string
	Probes  []Probe

	Auth           service.AuthService
	Documents      service.DocumentService
	Folders        service.FolderService
	AccessRequests service.AccessRequestService
	Reports        service.ReportService
	Activity       service.ActivityService
	Users          service.UserService
	Departments    service.DepartmentService
	Dashboard      service.DashboardService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Every /api/v1 route except the
// auth entry points requires a bearer session.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Index(d.Version))
	app.Get("/health", HealthCheck(d.Probes...))
	app.Get("/healthz", LivenessProbe())
	app.Get("/swagger/*", SwaggerUI())

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/signup", SignUp(d.Auth))
	auth.Post("/signin", SignIn(d.Auth))
	auth.Post("/password/reset", RequestPasswordReset(d.Auth))
	auth.Post("/password/update", UpdatePassword(d.Auth))
	auth.Post("/verify", VerifyEmail(d.Auth))
	auth.Post("/verify/resend", ResendVerification(d.Auth))

	api := v1.Group("", middleware.RequireSession(d.Auth, respondError))

	api.Post("/auth/signout", SignOut(d.Auth))
	api.Get("/auth/session", GetSession(d.Auth))

	api.Get("/dashboard", Dashboard(d.Dashboard))

	api.Get("/documents", ListDocuments(d.Documents))
	api.Post("/documents", UploadDocument(d.Documents))
	api.Get("/documents/:id", GetDocument(d.Documents))
	api.Delete("/documents/:id", DeleteDocument(d.Documents))
	api.Get("/documents/:id/download", DownloadDocument(d.Documents))
	api.Patch("/documents/:id/status", UpdateDocumentStatus(d.Documents))
	api.Get("/search", SearchDocuments(d.Documents))

	api.Get("/folders", ListFolders(d.Folders))
	api.Post("/folders", CreateFolder(d.Folders))
	api.Delete("/folders/:id", DeleteFolder(d.Folders))
	api.Patch("/folders/:id/secret", SetFolderSecret(d.Folders))
	api.Get("/folders/:id/documents", FolderDocuments(d.Folders))
	api.Post("/folders/:id/access-requests", RequestFolderAccess(d.AccessRequests))

	api.Get("/access-requests", ListAccessRequests(d.AccessRequests))
	api.Get("/access-requests/mine", ListMyAccessRequests(d.AccessRequests))
	api.Post("/access-requests/:id/review", ReviewAccessRequest(d.AccessRequests))

	api.Get("/reports/tables", ReportTables(d.Reports))
	api.Post("/reports", BuildReport(d.Reports))
	api.Post("/reports/export", ExportReport(d.Reports))

	api.Get("/activity", ListActivity(d.Activity))
	api.Get("/activity/export", ExportActivity(d.Activity))

	api.Get("/users", ListUsers(d.Users))
	api.Get("/departments", ListDepartments(d.Departments))
	api.Get("/settings/profile", GetProfile(d.Users))
	api.Put("/settings/profile", UpdateProfile(d.Users))
	api.Post("/settings/password", ChangePassword(d.Users))

	app.Use(NotFound())
}

// SwaggerUI serves the API docs with the host and scheme the caller used.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}
