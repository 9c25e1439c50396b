// handlers/task_routes.go
package handlers

import (
	"log"
	"strings"
	"time"

	"task-reward-system/middleware"
	"task-reward-system/models"
	"task-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

func SetupTaskRoutes(app *fiber.App, sessions *services.SessionManager, calendar *services.CalendarSyncClient) {
	// 🔐 All task routes require user context forwarded by the Gateway.
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/tasks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		store := sessions.Session(c.Context(), userID)
		return c.JSON(fiber.Map{"tasks": store.Tasks()})
	})

	secured.Post("/tasks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req createTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if strings.TrimSpace(req.Title) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "title is required",
			})
		}

		store := sessions.Session(c.Context(), userID)
		task := store.AddTask(models.Task{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Priority:    models.ParsePriority(req.Priority),
			DueAt:       req.DueAt,
		})

		syncToCalendar(calendar, userID, task)

		return c.Status(fiber.StatusCreated).JSON(task)
	})

	// Voice/NLP drafts land here; the pipeline itself is an external
	// collaborator and the draft is just another AddTask caller.
	secured.Post("/tasks/draft", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var draft models.TaskDraft
		if err := c.BodyParser(&draft); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if strings.TrimSpace(draft.Title) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "draft title is required",
			})
		}

		store := sessions.Session(c.Context(), userID)
		task := store.AddDraft(draft)

		syncToCalendar(calendar, userID, task)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"task":       task,
			"confidence": draft.Confidence,
		})
	})

	secured.Post("/tasks/:id/toggle", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		store := sessions.Session(c.Context(), userID)

		// Unknown ids are a no-op in the core; the surface reports it
		// without treating it as a failure.
		res, ok := store.ToggleCompletion(c.Params("id"))
		if !ok {
			return c.JSON(fiber.Map{"updated": false})
		}
		return c.JSON(fiber.Map{
			"updated": true,
			"result":  res,
		})
	})

	secured.Delete("/tasks/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		store := sessions.Session(c.Context(), userID)
		deleted := store.DeleteTask(c.Params("id"))
		return c.JSON(fiber.Map{"deleted": deleted})
	})
}

// syncToCalendar fires calendar sync in the background. The core is not
// informed of the outcome and does not react to it.
func syncToCalendar(calendar *services.CalendarSyncClient, userID string, task models.Task) {
	if calendar == nil || task.DueAt == nil {
		return
	}
	go func() {
		if err := calendar.SyncTask(userID, task); err != nil {
			log.Printf("📅 Calendar sync failed for task %s: %v", task.ID, err)
		}
	}()
}
