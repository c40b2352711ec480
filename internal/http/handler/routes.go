package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docsecure/internal/service"
)

// Services bundles the service dependencies the HTTP surface needs.
type Services struct {
	Documents service.DocumentService
	Shares    service.ShareService
	Audits    service.AuditService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; authorization and auditing live in the services.
//
// authn guards every route that acts on behalf of a user. The /public tree
// and the probes are deliberately outside it.
func RegisterRoutes(app *fiber.App, db *sql.DB, authn fiber.Handler, svcs Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Anonymous share resolution by token.
	public := app.Group("/public")
	public.Get("/documents/:token", PublicShareInfo(svcs.Shares))
	public.Get("/documents/:token/download", PublicShareDownload(svcs.Shares))

	docs := app.Group("/documents", authn)
	docs.Post("/", UploadDocument(svcs.Documents))
	docs.Get("/", ListDocuments(svcs.Documents))
	docs.Get("/:id", GetDocument(svcs.Documents))
	docs.Delete("/:id", DeleteDocument(svcs.Documents))

	shares := app.Group("/shares", authn)
	shares.Post("/", CreateShare(svcs.Shares))
	shares.Get("/", ListShares(svcs.Shares))
	shares.Delete("/:id", RevokeShare(svcs.Shares))

	app.Get("/audit-logs", authn, ListAuditLogs(svcs.Audits))
}
