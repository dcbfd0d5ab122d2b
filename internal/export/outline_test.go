package export

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"course-studio/internal/domain"
)

func TestEncodeOutlineXML(t *testing.T) {
	cfg := OutlineConfig{
		Operation: "upsert",
		TagsByThematic: map[string][]string{
			"defence-security":     {"NATO", "NATO", " "},
			"community resilience": {"LOCAL"},
		},
	}

	var buf bytes.Buffer
	if err := EncodeOutlineXML(&buf, sampleCourses(), cfg); err != nil {
		t.Fatalf("EncodeOutlineXML() error = %v", err)
	}
	content := buf.String()

	if !strings.HasPrefix(content, xml.Header) {
		t.Error("XML header is incorrect")
	}
	for _, want := range []string{
		`<Course operation="upsert">`,
		`<catalog_id>SEC-101</catalog_id>`,
		`<duration_hours>4</duration_hours>`,
		`<thematic>Community resilience</thematic>`,
		`<field_name>catalog_tags</field_name>`,
		`<field_value>LOCAL</field_value>`,
		`<point>links</point>`,
		`<criterion>accuracy</criterion>`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected XML to contain %s", want)
		}
	}
	if strings.Count(content, "<point>") != 1 {
		t.Error("Expected duplicate and blank key points to be compacted")
	}

	var parsed outlineList
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse XML: %v", err)
	}
	if len(parsed.Courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(parsed.Courses))
	}

	first := parsed.Courses[0]
	if first.Objectives == nil || len(first.Objectives.Items) != 2 {
		t.Fatalf("Expected 2 terminal objectives, got %+v", first.Objectives)
	}
	if len(first.Objectives.Items[0].Enabling) != 1 || first.Objectives.Items[0].Enabling[0].ID != "e1" {
		t.Errorf("Expected e1 nested under t1, got %+v", first.Objectives.Items[0])
	}
	if first.Objectives.Items[1].Text != "Report incidents" {
		t.Errorf("Expected trimmed objective text, got %q", first.Objectives.Items[1].Text)
	}

	// one tag goes to custom_info, several to custom_multi_value_list
	if first.CustomInfo == nil || first.CustomInfo.Fields[0].FieldValue != "NATO" {
		t.Errorf("Expected single NATO tag in custom_info, got %+v", first.CustomInfo)
	}
	if first.CustomMultiValueList != nil {
		t.Error("Expected no multi value list for a single tag")
	}

	second := parsed.Courses[1]
	if second.Objectives != nil || second.Modules != nil || second.Assessments != nil {
		t.Error("Expected empty sections to be omitted")
	}
	if second.DurationHours != "" {
		t.Errorf("Expected no duration, got %q", second.DurationHours)
	}
}

func TestEncodeOutlineXMLMultiValueTags(t *testing.T) {
	cfg := OutlineConfig{
		TagsFieldName:  "eligibility",
		TagsByThematic: map[string][]string{"leadership": {"MGMT", "EXEC"}},
	}
	courses := []domain.Course{{ID: "srv-9", Title: "Leading Teams", Thematic: domain.ThematicLeadership}}

	var buf bytes.Buffer
	if err := EncodeOutlineXML(&buf, courses, cfg); err != nil {
		t.Fatalf("EncodeOutlineXML() error = %v", err)
	}

	var parsed outlineList
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse XML: %v", err)
	}
	c := parsed.Courses[0]
	if c.Operation != "" {
		t.Errorf("Expected no operation attribute, got %q", c.Operation)
	}
	if c.CustomMultiValueList == nil {
		t.Fatal("Expected custom_multi_value_list")
	}
	f := c.CustomMultiValueList.Fields[0]
	if f.FieldName != "eligibility" || strings.Join(f.DataList.FieldValues, ",") != "MGMT,EXEC" {
		t.Errorf("Unexpected tag field %+v", f)
	}
}

func TestOrphanEnablingObjectiveStaysTopLevel(t *testing.T) {
	c := &domain.Course{LearningObjectives: []domain.LearningObjective{
		{ID: "e9", Type: domain.ObjectiveEnabling, ParentID: "gone", Order: 0},
		{ID: "t1", Type: domain.ObjectiveTerminal, Order: 1},
	}}
	got := outlineObjectivesOf(c)
	if len(got.Items) != 2 || got.Items[0].ID != "t1" || got.Items[1].ID != "e9" {
		t.Errorf("Unexpected objective tree %+v", got.Items)
	}
}

func TestWriteOutlineXML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outline.xml")
	if err := WriteOutlineXML(out, sampleCourses()[:1], OutlineConfig{}); err != nil {
		t.Fatalf("WriteOutlineXML() error = %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read XML file: %v", err)
	}
	if !strings.Contains(string(b), "<title>Security Awareness</title>") {
		t.Error("Expected course title in outline")
	}

	if err := WriteOutlineXML(filepath.Join(t.TempDir(), "missing", "x.xml"), nil, OutlineConfig{}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestWriteRetirementXML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "retire.xml")
	err := WriteRetirementXML(out, []Retired{
		{Title: " Old course ", CatalogID: "OLD-1"},
		{Title: "No id"},
	})
	if err != nil {
		t.Fatalf("WriteRetirementXML() error = %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read XML file: %v", err)
	}
	content := string(b)
	if !strings.Contains(content, `<Course operation="delete">`) {
		t.Error("Expected delete operation")
	}
	if !strings.Contains(content, "<title>Old course</title>") {
		t.Error("Expected trimmed title")
	}
	if strings.Contains(content, "No id") {
		t.Error("Expected rows without catalog id to be skipped")
	}
}
