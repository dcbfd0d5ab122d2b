package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Retired is the minimal row needed to withdraw a course from a catalog:
//
//	<Course>
//	  <title>Crisis Comms</title>
//	  <catalog_id>CRS-204</catalog_id>
//	</Course>
type Retired struct {
	Title     string
	CatalogID string
}

type retiredList struct {
	XMLName xml.Name        `xml:"Course_Outline_List"`
	Courses []retiredCourse `xml:"Course"`
}

type retiredCourse struct {
	Operation string `xml:"operation,attr"`
	Title     string `xml:"title,omitempty"`
	CatalogID string `xml:"catalog_id"`
}

// WriteRetirementXML writes a delete manifest. Rows without a catalog id
// are skipped.
func WriteRetirementXML(outPath string, courses []Retired) error {
	out := retiredList{Courses: make([]retiredCourse, 0, len(courses))}

	for _, c := range courses {
		id := strings.TrimSpace(c.CatalogID)
		if id == "" {
			continue
		}
		out.Courses = append(out.Courses, retiredCourse{
			Operation: "delete",
			Title:     strings.TrimSpace(c.Title),
			CatalogID: id,
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal delete xml: %w", err)
	}

	if err := os.WriteFile(outPath, append([]byte(xml.Header), b...), 0o644); err != nil {
		return fmt.Errorf("export: write delete xml: %w", err)
	}
	return nil
}
