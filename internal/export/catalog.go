package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"course-studio/internal/domain"
)

// Catalog CSV columns. Keep header order EXACT, downstream sheets index by
// position.
var catalogHeader = []string{
	"COURSE_ID",
	"COURSE_CODE",
	"COURSE_TITLE",
	"LEVEL",
	"THEMATIC",
	"STATUS",
	"DELIVERY_METHOD",
	"DURATION_HOURS",
	"TARGET_AUDIENCE",
	"DESCRIPTION",
	"OBJECTIVES",
	"MODULES",
	"ASSESSMENTS",
	"COMPLETION_PCT",
	"AUTHOR",
	"VERSION",
	"UPDATED_TS",
}

// WriteCatalogCSV writes one row per course. Columns without a value are
// left empty.
func WriteCatalogCSV(w io.Writer, courses []domain.Course) error {
	cw := csv.NewWriter(w)
	// spreadsheet imports expect CRLF
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}

	for i := range courses {
		if err := cw.Write(toCatalogRow(&courses[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toCatalogRow(c *domain.Course) []string {
	status := string(c.Status)
	if status == "" {
		status = string(domain.StatusDraft)
	}

	duration := ""
	if c.DurationHours > 0 {
		duration = strconv.Itoa(c.DurationHours)
	}

	// only terminal objectives, enabling ones would blow up the cell
	var objectives []string
	for _, o := range c.TerminalObjectives() {
		objectives = append(objectives, o.Text)
	}

	modules := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		modules = append(modules, m.Title)
	}

	assessments := make([]string, 0, len(c.Assessments))
	for _, a := range c.Assessments {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = string(a.Type)
		}
		assessments = append(assessments, title)
	}

	return []string{
		CatalogID(c),                                   // COURSE_ID
		strings.TrimSpace(c.Code),                      // COURSE_CODE
		strings.TrimSpace(c.Title),                     // COURSE_TITLE
		string(c.Level),                                // LEVEL
		c.ThematicLabel(),                              // THEMATIC
		status,                                         // STATUS
		string(c.DeliveryMethod),                       // DELIVERY_METHOD
		duration,                                       // DURATION_HOURS
		oneLine(c.TargetAudience),                      // TARGET_AUDIENCE
		oneLine(c.Description),                         // DESCRIPTION
		strings.Join(cleanStrings(objectives), " | "),  // OBJECTIVES
		strings.Join(cleanStrings(modules), " | "),     // MODULES
		strings.Join(cleanStrings(assessments), " | "), // ASSESSMENTS
		strconv.Itoa(c.CompletionPercentage()),         // COMPLETION_PCT
		strings.TrimSpace(c.Metadata.Author),           // AUTHOR
		c.Metadata.Version,                             // VERSION
		c.Metadata.UpdatedDate,                         // UPDATED_TS
	}
}

// CatalogID is the identifier a course is listed under: its code when it
// has one, the service id otherwise.
func CatalogID(c *domain.Course) string {
	if code := strings.TrimSpace(c.Code); code != "" {
		return strings.ToUpper(code)
	}
	return c.ID
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = oneLine(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
