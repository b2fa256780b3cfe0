package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	summary, err := handler.exports.BuildSummary(c.UserContext(), exportRange)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	entries, err := handler.exportEntries(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.exportFailed(c, err)
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Columns()); err != nil {
			return handler.exportFailed(c, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return handler.exportFailed(c, err)
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.localNow(), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	entries, err := handler.exportEntries(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	now := handler.localNow()

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return handler.exportFailed(c, err)
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportXLSX(c *fiber.Ctx) error {
	entries, err := handler.exportEntries(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	workbook, err := services.BuildWorkbook(entries)
	if err != nil {
		return handler.exportFailed(c, err)
	}

	setExportAttachmentHeaders(c, xlsxContentType, buildExportFilename(handler.localNow(), "xlsx"))
	return c.Send(workbook)
}

func (handler *Handler) exportEntries(c *fiber.Ctx) ([]services.ExportEntry, error) {
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, err
	}
	return handler.exports.BuildEntries(c.UserContext(), exportRange)
}

func (handler *Handler) exportFailed(c *fiber.Ctx, err error) error {
	handler.logger.Error("build export failed", zap.String("path", c.Path()), zap.Error(err))
	return handler.apiError(c, fiber.StatusInternalServerError, "errors.internal")
}

func (handler *Handler) localNow() time.Time {
	return handler.now().In(handler.location)
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("tenanto-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
