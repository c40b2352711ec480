package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docsecure/internal/http/middleware"
	"docsecure/internal/service"
)

// createShareRequest is the body of POST /shares. A missing expires_at means
// the link gets the default seven-day lifetime.
type createShareRequest struct {
	DocumentID string     `json:"document_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// CreateShare issues a share link for a document owned by the requester.
func CreateShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireIdentity(c)
		if err != nil {
			return err
		}

		var req createShareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if _, err := uuid.Parse(req.DocumentID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		link, err := svc.Create(c.UserContext(), actor, middleware.ClientIP(c), req.DocumentID, req.ExpiresAt)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(link)
	}
}

// ListShares returns the requester's active share links.
func ListShares(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireIdentity(c)
		if err != nil {
			return err
		}

		links, err := svc.List(c.UserContext(), actor, middleware.ClientIP(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": links})
	}
}

// RevokeShare deactivates a share link created by the requester.
func RevokeShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireIdentity(c)
		if err != nil {
			return err
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Revoke(c.UserContext(), actor, middleware.ClientIP(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PublicShareInfo resolves a share token without authentication. A token that
// does not resolve yields the same 404 whether it is unknown, revoked, or
// expired.
func PublicShareInfo(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.ResolvePublic(c.UserContext(), middleware.ClientIP(c), c.Params("token"))
		if err != nil {
			return writePublicShareError(c, err)
		}
		return c.JSON(info)
	}
}

// PublicShareDownload streams the shared document's content without
// authentication.
func PublicShareDownload(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, meta, err := svc.ResolvePublicDownload(c.UserContext(), middleware.ClientIP(c), c.Params("token"))
		if err != nil {
			return writePublicShareError(c, err)
		}

		c.Set(fiber.HeaderContentType, meta.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+meta.OriginalFilename+`"`)
		if meta.Size > 0 {
			c.Set(fiber.HeaderContentLength, strconv.FormatInt(meta.Size, 10))
			// int is 32 bits on some platforms; stream unsized rather than
			// truncate the length.
			if sz := int(meta.Size); int64(sz) == meta.Size {
				return c.SendStream(rc, sz)
			}
		}
		return c.SendStream(rc)
	}
}

func writePublicShareError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "share link not found or expired")
	}
	return writeServiceError(c, err)
}
