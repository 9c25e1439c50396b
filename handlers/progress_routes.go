// handlers/progress_routes.go
package handlers

import (
	"strconv"

	"task-reward-system/middleware"
	"task-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, sessions *services.SessionManager, activity *services.ActivityLogger) {
	// 🔐 Secured routes — require user context (userID) set by the Gateway.
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		store := sessions.Session(c.Context(), userID)

		prog := store.Progress()
		return c.JSON(fiber.Map{
			"points":               prog.CurrentPoints,
			"total_points_earned":  prog.TotalPointsEarned,
			"level":                prog.Level,
			"current_streak":       prog.CurrentStreak,
			"longest_streak":       prog.LongestStreak,
			"last_completion_date": prog.LastCompletionDate,
			"completed_tasks":      prog.CompletedTasks,
			"total_tasks":          prog.TotalTasks,
		})
	})

	securedGroup.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		store := sessions.Session(c.Context(), userID)

		var response []fiber.Map
		for _, a := range store.Achievements() {
			response = append(response, fiber.Map{
				"code":         a.Code,
				"title":        a.Title,
				"description":  a.Description,
				"icon":         a.Icon,
				"rarity":       a.Rarity,
				"type":         a.Type,
				"threshold":    a.Threshold,
				"bonus_points": a.BonusPoints,
				"unlocked":     a.Unlocked,
				"unlocked_at":  a.UnlockedAt,
			})
		}
		return c.JSON(response)
	})

	securedGroup.Get("/user/progress/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		history, err := activity.History(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get history",
				"cause": err.Error(),
			})
		}
		return c.JSON(history)
	})
}
