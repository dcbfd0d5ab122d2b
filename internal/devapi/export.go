package devapi

import (
	"archive/zip"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Server) export(c *gin.Context) {
	var req gateway.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid export request: "+err.Error())
		return
	}

	course, ok := s.findCourse(req.CourseID)
	if !ok {
		notFound(c, "Course")
		return
	}

	var (
		name string
		err  error
	)
	switch req.Format {
	case domain.ExportJSON:
		name, err = s.writeExport(course, "", ".json", func(f *os.File) error {
			return writeJSONExport(f, course, req.IncludeMetadata)
		})
	case domain.ExportPDF:
		name, err = s.writeExport(course, "", ".pdf", func(f *os.File) error {
			_, err := f.WriteString(placeholderDocument("PDF", course))
			return err
		})
	case domain.ExportDOCX:
		name, err = s.writeExport(course, "", ".docx", func(f *os.File) error {
			_, err := f.WriteString(placeholderDocument("DOCX", course))
			return err
		})
	case domain.ExportSCORM:
		name, err = s.writeExport(course, "_scorm", ".zip", func(f *os.File) error {
			return writeSCORMPackage(f, course)
		})
	default:
		badRequest(c, fmt.Sprintf("Unsupported export format: %s", req.Format))
		return
	}
	if err != nil {
		s.log.Error("export failed", "course_id", course.ID, "format", req.Format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	s.log.Info("course exported", "course_id", course.ID, "format", req.Format, "file", name)
	c.JSON(http.StatusOK, gateway.ExportResponse{
		Success:     true,
		DownloadURL: "/api/export/download/" + name,
	})
}

// writeExport creates a uniquely named file in the export dir and hands it
// to write. The file is removed if write fails.
func (s *Server) writeExport(course *domain.Course, suffix, ext string, write func(*os.File) error) (string, error) {
	base := strings.Trim(unsafeName.ReplaceAllString(course.Code, "-"), "-.")
	if base == "" {
		base = "course"
	}
	base += "_" + s.now().Format("20060102_150405") + suffix

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		f    *os.File
		name string
		err  error
	)
	for n := 1; ; n++ {
		name = base + ext
		if n > 1 {
			name = base + "-" + strconv.Itoa(n) + ext
		}
		f, err = os.OpenFile(filepath.Join(s.exportDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("create export file: %w", err)
		}
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close export file: %w", err)
	}
	return name, nil
}

func writeJSONExport(f *os.File, course *domain.Course, includeMetadata bool) error {
	var v any = course
	if !includeMetadata {
		b, err := json.Marshal(course)
		if err != nil {
			return err
		}
		m := map[string]any{}
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		delete(m, "metadata")
		v = m
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func placeholderDocument(kind string, c *domain.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s EXPORT PLACEHOLDER\n%s\n\n", kind, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Course: %s\nCode: %s\nLevel: %s\nThematic: %s\nDuration: %d hours\n\n",
		c.Title, c.Code, c.Level, c.ThematicLabel(), c.DurationHours)
	b.WriteString("Description:\n")
	if strings.TrimSpace(c.Description) == "" {
		b.WriteString("No description provided.\n")
	} else {
		b.WriteString(c.Description + "\n")
	}
	b.WriteString("\nLearning Objectives:\n")
	for _, o := range c.LearningObjectives {
		fmt.Fprintf(&b, "  - [%s] %s\n", o.Type, o.Text)
	}
	b.WriteString("\nModules:\n")
	for _, m := range c.Modules {
		fmt.Fprintf(&b, "  %d. %s\n", m.Number, m.Title)
		for _, l := range m.Lessons {
			fmt.Fprintf(&b, "    - Lesson %d: %s\n", l.Number, l.Title)
		}
	}
	return b.String()
}

const scormManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="%s" version="1.2" xmlns="http://www.imsproject.org/xsd/imscp_rootv1p1p2">
  <organizations default="org-1">
    <organization identifier="org-1">
      <title>%s</title>
      <item identifier="item-1" identifierref="res-1"><title>%s</title></item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="res-1" type="webcontent" href="course.json"><file href="course.json"/></resource>
  </resources>
</manifest>
`

// writeSCORMPackage writes a minimal content package: a manifest pointing
// at the course JSON.
func writeSCORMPackage(f *os.File, c *domain.Course) error {
	zw := zip.NewWriter(f)

	mw, err := zw.Create("imsmanifest.xml")
	if err != nil {
		return err
	}
	title := xmlEscape(c.Title)
	if _, err := fmt.Fprintf(mw, scormManifest, xmlEscape("course-"+c.ID), title, title); err != nil {
		return err
	}

	cw, err := zw.Create("course.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return err
	}
	return zw.Close()
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (s *Server) download(c *gin.Context) {
	name := c.Param("file")
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		notFound(c, "File")
		return
	}
	path := filepath.Join(s.exportDir, name)
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		notFound(c, "File")
		return
	}
	c.Header("Content-Type", mediaType(name))
	c.FileAttachment(path, name)
}

func mediaType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".zip":
		return "application/zip"
	}
	return "application/octet-stream"
}

func (s *Server) formats(c *gin.Context) {
	type format struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Extension string `json:"extension"`
		Status    string `json:"status"`
	}
	c.JSON(http.StatusOK, gin.H{"formats": []format{
		{ID: string(domain.ExportJSON), Name: "JSON", Extension: ".json", Status: "available"},
		{ID: string(domain.ExportPDF), Name: "PDF", Extension: ".pdf", Status: "placeholder"},
		{ID: string(domain.ExportDOCX), Name: "Word Document", Extension: ".docx", Status: "placeholder"},
		{ID: string(domain.ExportSCORM), Name: "SCORM Package", Extension: ".zip", Status: "placeholder"},
	}})
}
