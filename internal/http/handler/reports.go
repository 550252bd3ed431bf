package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/export"
	"govdocs/internal/service"
)

func ReportTables(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": svc.Tables()})
	}
}

// BuildReport godoc
// @Summary Preview a report
// @Tags reports
// @Accept json
// @Produce json
// @Param body body service.ReportRequest true "Table and fields"
// @Success 200 {object} service.Report
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/reports [post]
func BuildReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		var in service.ReportRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		rep, err := svc.Build(c.UserContext(), a, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rep)
	}
}

// ExportReport renders the report as xlsx, pdf or docx.
func ExportReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		f, err := export.ParseFormat(c.Query("format", string(export.FormatXLSX)))
		if err != nil || f == export.FormatCSV {
			return respondError(c, errInvalidFormat)
		}
		var in service.ReportRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		file, err := svc.Export(c.UserContext(), a, in, f)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, file)
	}
}
