package api

import "github.com/gofiber/fiber/v2"

type storageIssue struct {
	Key           string `json:"key"`
	QuarantineKey string `json:"quarantineKey"`
	Raw           string `json:"raw"`
	Error         string `json:"error"`
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	overview, err := handler.dashboard.Overview(c.UserContext(), c.Query("period"), c.Query("window"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(overview)
}

// StorageIssues lists stored values that failed to decode, with the raw
// payload kept under their quarantine key.
func (handler *Handler) StorageIssues(c *fiber.Ctx) error {
	parseIssues := handler.stores.ParseIssues()
	issues := make([]storageIssue, 0, len(parseIssues))
	for _, parseIssue := range parseIssues {
		issue := storageIssue{
			Key:           parseIssue.Key,
			QuarantineKey: parseIssue.QuarantineKey,
			Raw:           parseIssue.Raw,
		}
		if parseIssue.Err != nil {
			issue.Error = parseIssue.Err.Error()
		}
		issues = append(issues, issue)
	}
	return c.JSON(fiber.Map{"issues": issues})
}
