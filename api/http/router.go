package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultancy/staffing/api/http/handlers"
)

// Register wires all HTTP routes onto the given Fiber app. Literal segments
// (search, recent, ...) are registered before the :id routes so they are
// matched first.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	candidates *handlers.CandidateHandler,
	benchCandidates *handlers.BenchCandidateHandler,
	workingCandidates *handlers.WorkingCandidateHandler,
	employees *handlers.EmployeeHandler,
	vendors *handlers.VendorHandler,
	activities *handlers.ActivityHandler,
	dash *handlers.DashboardHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/signup", auth.SignUp)
	a.Post("/signin", auth.SignIn)
	a.Post("/signout", auth.SignOut)

	cg := v1.Group("/candidates", authMW)
	cg.Get("/search", candidates.Search)
	cg.Get("/status/:status", candidates.ByStatus)
	cg.Post("/", candidates.Create)
	cg.Get("/", candidates.List)
	cg.Get("/:id", candidates.Get)
	cg.Put("/:id", candidates.Update)
	cg.Delete("/:id", candidates.Delete)
	cg.Get("/:id/resume", candidates.DownloadResume)

	bg := v1.Group("/bench-candidates", authMW)
	bg.Get("/search", benchCandidates.Search)
	bg.Get("/recent", benchCandidates.Recent)
	bg.Get("/consultant/:consultantId", benchCandidates.ByConsultant)
	bg.Post("/", benchCandidates.Create)
	bg.Get("/", benchCandidates.List)
	bg.Get("/:id", benchCandidates.Get)
	bg.Put("/:id", benchCandidates.Update)
	bg.Delete("/:id", benchCandidates.Delete)
	bg.Get("/:id/resume", benchCandidates.DownloadResume)
	bg.Get("/:id/documents", benchCandidates.ListDocuments)
	bg.Post("/:id/documents", benchCandidates.UploadDocument)
	bg.Post("/:id/documents/multiple", benchCandidates.UploadDocuments)
	bg.Get("/:id/documents/:documentId/info", benchCandidates.GetDocument)
	bg.Get("/:id/documents/:documentId", benchCandidates.DownloadDocument)
	bg.Delete("/:id/documents/:documentId", benchCandidates.DeleteDocument)

	wg := v1.Group("/working-candidates", authMW)
	wg.Get("/search", workingCandidates.Search)
	wg.Post("/", workingCandidates.Create)
	wg.Get("/", workingCandidates.List)
	wg.Get("/:id", workingCandidates.Get)
	wg.Put("/:id", workingCandidates.Update)
	wg.Delete("/:id", workingCandidates.Delete)

	eg := v1.Group("/employees", authMW)
	eg.Get("/search", employees.Search)
	eg.Get("/paginated", employees.List)
	eg.Get("/role/:role", employees.ByRole)
	eg.Post("/", employees.Create)
	eg.Get("/", employees.ListAll)
	eg.Get("/:id", employees.Get)
	eg.Put("/:id", employees.Update)
	eg.Delete("/:id", employees.Delete)

	vg := v1.Group("/vendors", authMW)
	vg.Get("/search", vendors.Search)
	vg.Get("/top-performing", vendors.TopPerforming)
	vg.Get("/status/:status", vendors.ByStatus)
	vg.Post("/", vendors.Create)
	vg.Get("/", vendors.List)
	vg.Get("/:id", vendors.Get)
	vg.Put("/:id", vendors.Update)
	vg.Delete("/:id", vendors.Delete)
	vg.Post("/:id/record-submission", vendors.RecordSubmission)
	vg.Post("/:id/record-placement", vendors.RecordPlacement)

	ag := v1.Group("/candidate-activities", authMW)
	ag.Get("/search", activities.Search)
	ag.Get("/recent", activities.Recent)
	ag.Get("/date-range", activities.ByDateRange)
	ag.Get("/type/:type", activities.ByType)
	ag.Get("/candidate/:candidateId/paginated", activities.ByCandidatePaged)
	ag.Get("/candidate/:candidateId", activities.ByCandidate)
	ag.Get("/count/candidate/:candidateId", activities.CountByCandidate)
	ag.Get("/count/type/:type", activities.CountByType)
	ag.Post("/", activities.Create)
	ag.Get("/", activities.List)
	ag.Get("/:id", activities.Get)
	ag.Put("/:id", activities.Update)
	ag.Delete("/:id", activities.Delete)

	dg := v1.Group("/dashboard", authMW)
	dg.Get("/stats", dash.Stats)
}
