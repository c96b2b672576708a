package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// yearMonthRe matches the "YYYY-MM" grouping key used by the monthly KPI
// report.
var yearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Report names the export endpoint accepts.
var exportableReports = map[string]bool{
	"videos":         true,
	"types":          true,
	"categories":     true,
	"monthly":        true,
	"top_views":      true,
	"top_engagement": true,
	"correlations":   true,
	"channels":       true,
}

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateYearMonth checks an optional month filter. Empty is allowed (no
// filter); anything else must be a YYYY-MM key.
func ValidateYearMonth(ym string) (string, string) {
	ym = strings.TrimSpace(ym)
	if ym == "" {
		return "", ""
	}
	if !yearMonthRe.MatchString(ym) {
		return "", "month must be a YYYY-MM key"
	}
	return ym, ""
}

// ValidateReportName checks that a report name is one of the exportable
// reports.
func ValidateReportName(name string) (string, string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", "report name is required"
	}
	if !exportableReports[name] {
		return "", "unknown report name"
	}
	return name, ""
}
