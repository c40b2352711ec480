package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docsecure/internal/http/middleware"
	"docsecure/internal/repository"
	"docsecure/internal/service"
)

// ListAuditLogs returns audit trail entries visible to the requester.
// Optional query filters: user_id (admins only, enforced by the service),
// action, resource_type, resource_id, start, end (RFC 3339), limit, offset.
func ListAuditLogs(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireIdentity(c)
		if err != nil {
			return err
		}

		limit, err := strconv.Atoi(c.Query("limit", "100"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		f := repository.AuditFilter{
			UserID:       c.Query("user_id"),
			Action:       c.Query("action"),
			ResourceType: c.Query("resource_type"),
			ResourceID:   c.Query("resource_id"),
		}
		if v := c.Query("start"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TIME", "invalid start time")
			}
			f.Start = t
		}
		if v := c.Query("end"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TIME", "invalid end time")
			}
			f.End = t
		}

		entries, err := svc.List(c.UserContext(), actor, middleware.ClientIP(c), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": entries})
	}
}
