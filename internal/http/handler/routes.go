package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"submithub/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// thin: parse the event, call the engine, map the result.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.SubmissionService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/submissions", CreateSubmission(svc))
	app.Get("/submissions", ListSubmissions(svc))
	app.Get("/submissions/:name/content", DownloadSubmission(svc))
	app.Post("/submissions/selection", SelectTarget(svc))
	app.Delete("/submissions/selection/:submitterID", CancelSelection(svc))

	app.Post("/targets", RegisterTarget(svc))
	app.Get("/targets", ListTargets(svc))

	app.Get("/whoami", Whoami(svc))
}

// HealthCheck checks metadata-store connectivity only; the blob store is
// allowed to be down (reads degrade).
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateSubmission accepts a multipart payload (field: file) plus
// submitter_id and submitter_name form values, parks it for target selection,
// and returns the available routing targets.
func CreateSubmission(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		submitterID := c.FormValue("submitter_id")
		if submitterID == "" {
			return writeError(c, fiber.StatusBadRequest, "SUBMITTER_REQUIRED", "submitter_id is required")
		}
		submitterName := c.FormValue("submitter_name")
		if submitterName == "" {
			submitterName = submitterID
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		targets, err := svc.Submit(c.UserContext(), f, fh.Filename, submitterID, submitterName, ct)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"file_name": fh.Filename,
			"message":   "please select your target",
			"targets":   targets,
		})
	}
}

type selectTargetRequest struct {
	SubmitterID string `json:"submitter_id"`
	TargetID    string `json:"target_id"`
}

// SelectTarget commits a pending submission to the chosen routing target.
func SelectTarget(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req selectTargetRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.SubmitterID == "" || req.TargetID == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "submitter_id and target_id are required")
		}

		sub, err := svc.SelectTarget(c.UserContext(), req.SubmitterID, req.TargetID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	}
}

// CancelSelection drops a submitter's pending upload.
func CancelSelection(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc.CancelSelection(c.Params("submitterID")) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no pending selection")
	}
}

type registerTargetRequest struct {
	TargetID    string `json:"target_id"`
	DisplayName string `json:"display_name"`
	RequestedBy string `json:"requested_by"`
}

// RegisterTarget registers a routing target on behalf of an admin.
func RegisterTarget(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerTargetRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		t, err := svc.RegisterTarget(c.UserContext(), req.RequestedBy, req.TargetID, req.DisplayName)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ListTargets returns the registered routing targets.
func ListTargets(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"targets": svc.Targets()})
	}
}

// ListSubmissions returns the reconciled submissions the requester may see.
// Identity and role come from headers; the role check itself is the engine's.
func ListSubmissions(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requesterID := c.Get("X-Requester-ID")
		requesterRole := c.Get("X-Requester-Role")
		if requesterID == "" {
			return writeError(c, fiber.StatusBadRequest, "REQUESTER_REQUIRED", "X-Requester-ID header is required")
		}

		res, err := svc.List(c.UserContext(), requesterID, requesterRole)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadSubmission streams one submission's payload.
func DownloadSubmission(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid file name")
		}

		rc, info, err := svc.Content(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.SendStream(rc, int(info.Size))
	}
}

// Whoami classifies an identity for the front-end greeting.
func Whoami(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "ID_REQUIRED", "id is required")
		}
		return c.JSON(fiber.Map{"id": id, "role": svc.Role(id)})
	}
}
