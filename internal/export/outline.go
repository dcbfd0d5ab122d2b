package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"course-studio/internal/domain"
)

/*
Outline layout:

<Course_Outline_List>
  <Course operation="upsert">
    <catalog_id>SEC-101</catalog_id>
    <title>...</title>
    <level>intermediate</level>
    <thematic>defence-security</thematic>
    <status>DRAFT</status>
    <duration_hours>8</duration_hours>
    <objectives>
      <objective id="obj-1" type="terminal" order="0">
        <text>...</text>
        <objective id="obj-2" type="enabling" order="1"><text>...</text></objective>
      </objective>
    </objectives>
    <modules>...</modules>
    <assessments>...</assessments>
    <custom_multi_value_list>
      <custom_mv_field>
        <field_name>catalog_tags</field_name>
        <data_type>string</data_type>
        <data_list><field_value>NATO</field_value></data_list>
      </custom_mv_field>
    </custom_multi_value_list>
  </Course>
</Course_Outline_List>
*/

type outlineList struct {
	XMLName xml.Name        `xml:"Course_Outline_List"`
	Courses []outlineCourse `xml:"Course"`
}

type outlineCourse struct {
	Operation string `xml:"operation,attr,omitempty"`

	CatalogID   string `xml:"catalog_id"`
	Code        string `xml:"code,omitempty"`
	Title       string `xml:"title,omitempty"`
	Description string `xml:"description,omitempty"`
	Overview    string `xml:"overview,omitempty"`

	Level          string `xml:"level,omitempty"`
	Thematic       string `xml:"thematic,omitempty"`
	Status         string `xml:"status,omitempty"`
	DeliveryMethod string `xml:"delivery_method,omitempty"`
	DurationHours  string `xml:"duration_hours,omitempty"`
	TargetAudience string `xml:"target_audience,omitempty"`

	Author    string `xml:"author,omitempty"`
	Version   string `xml:"version,omitempty"`
	UpdatedTS string `xml:"updated_ts,omitempty"`

	Objectives  *outlineObjectives  `xml:"objectives,omitempty"`
	Modules     *outlineModules     `xml:"modules,omitempty"`
	Assessments *outlineAssessments `xml:"assessments,omitempty"`

	CustomInfo           *customInfo           `xml:"custom_info,omitempty"`
	CustomMultiValueList *customMultiValueList `xml:"custom_multi_value_list,omitempty"`
}

type outlineObjectives struct {
	Items []outlineObjective `xml:"objective"`
}

type outlineObjective struct {
	ID       string             `xml:"id,attr"`
	Type     string             `xml:"type,attr"`
	Order    int                `xml:"order,attr"`
	Text     string             `xml:"text"`
	Enabling []outlineObjective `xml:"objective,omitempty"`
}

type outlineModules struct {
	Items []outlineModule `xml:"module"`
}

type outlineModule struct {
	Number      int             `xml:"number,attr"`
	Duration    int             `xml:"duration,attr,omitempty"`
	Title       string          `xml:"title"`
	Description string          `xml:"description,omitempty"`
	Lessons     []outlineLesson `xml:"lessons>lesson,omitempty"`
}

type outlineLesson struct {
	Number     int      `xml:"number,attr"`
	Duration   int      `xml:"duration,attr,omitempty"`
	Title      string   `xml:"title"`
	KeyPoints  []string `xml:"key_points>point,omitempty"`
	Activities []string `xml:"activities>activity,omitempty"`
}

type outlineAssessments struct {
	Items []outlineAssessment `xml:"assessment"`
}

type outlineAssessment struct {
	Type         string   `xml:"type,attr"`
	PassingScore int      `xml:"passing_score,attr,omitempty"`
	Duration     int      `xml:"duration,attr,omitempty"`
	Title        string   `xml:"title"`
	Description  string   `xml:"description,omitempty"`
	Criteria     []string `xml:"criteria>criterion,omitempty"`
}

type customInfo struct {
	Fields []customField `xml:"custom_field"`
}

type customField struct {
	FieldName  string `xml:"field_name"`
	DataType   string `xml:"data_type"`
	FieldValue string `xml:"field_value"`
}

type customMultiValueList struct {
	Fields []customMVField `xml:"custom_mv_field"`
}

type customMVField struct {
	FieldName string   `xml:"field_name"`
	DataType  string   `xml:"data_type"`
	DataList  dataList `xml:"data_list"`
}

type dataList struct {
	FieldValues []string `xml:"field_value"`
}

type OutlineConfig struct {
	// If Operation is set, it is written as Course @operation="...".
	Operation string

	// Name of the tag custom field. Default: "catalog_tags".
	TagsFieldName string

	// Maps thematic label (lower case) to tags, e.g. "leadership" -> {"MGMT"}.
	TagsByThematic map[string][]string
}

// WriteOutlineXML writes the outline of courses to outPath.
func WriteOutlineXML(outPath string, courses []domain.Course, cfg OutlineConfig) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("export: create xml: %w", err)
	}
	if err := EncodeOutlineXML(f, courses, cfg); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}

// EncodeOutlineXML renders courses as an indented outline document.
func EncodeOutlineXML(w io.Writer, courses []domain.Course, cfg OutlineConfig) error {
	fieldName := strings.TrimSpace(cfg.TagsFieldName)
	if fieldName == "" {
		fieldName = "catalog_tags"
	}

	out := outlineList{Courses: make([]outlineCourse, 0, len(courses))}
	for i := range courses {
		c := &courses[i]
		row := outlineCourse{
			Operation:   strings.TrimSpace(cfg.Operation),
			CatalogID:   CatalogID(c),
			Code:        strings.TrimSpace(c.Code),
			Title:       strings.TrimSpace(c.Title),
			Description: strings.TrimSpace(c.Description),
			Overview:    strings.TrimSpace(c.Overview),

			Level:          string(c.Level),
			Thematic:       c.ThematicLabel(),
			Status:         string(c.Status),
			DeliveryMethod: string(c.DeliveryMethod),
			TargetAudience: strings.TrimSpace(c.TargetAudience),

			Author:    strings.TrimSpace(c.Metadata.Author),
			Version:   c.Metadata.Version,
			UpdatedTS: c.Metadata.UpdatedDate,
		}
		if c.DurationHours > 0 {
			row.DurationHours = strconv.Itoa(c.DurationHours)
		}
		row.Objectives = outlineObjectivesOf(c)
		row.Modules = outlineModulesOf(c.Modules)
		row.Assessments = outlineAssessmentsOf(c.Assessments)

		tags := compactStrings(cfg.TagsByThematic[strings.ToLower(c.ThematicLabel())])
		if len(tags) == 1 {
			row.CustomInfo = &customInfo{
				Fields: []customField{{
					FieldName:  fieldName,
					DataType:   "string",
					FieldValue: tags[0],
				}},
			}
		} else if len(tags) > 1 {
			row.CustomMultiValueList = &customMultiValueList{
				Fields: []customMVField{{
					FieldName: fieldName,
					DataType:  "string",
					DataList:  dataList{FieldValues: tags},
				}},
			}
		}

		out.Courses = append(out.Courses, row)
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}

// outlineObjectivesOf nests enabling objectives under their terminal one.
// Enabling objectives whose parent is missing are listed at the top level.
func outlineObjectivesOf(c *domain.Course) *outlineObjectives {
	if len(c.LearningObjectives) == 0 {
		return nil
	}
	objs := make([]domain.LearningObjective, len(c.LearningObjectives))
	copy(objs, c.LearningObjectives)
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Order < objs[j].Order })

	terminals := map[string]int{}
	out := &outlineObjectives{}
	for _, o := range objs {
		if o.Type == domain.ObjectiveTerminal {
			terminals[o.ID] = len(out.Items)
			out.Items = append(out.Items, toOutlineObjective(o))
		}
	}
	for _, o := range objs {
		if o.Type == domain.ObjectiveTerminal {
			continue
		}
		if idx, ok := terminals[o.ParentID]; ok {
			out.Items[idx].Enabling = append(out.Items[idx].Enabling, toOutlineObjective(o))
			continue
		}
		out.Items = append(out.Items, toOutlineObjective(o))
	}
	return out
}

func toOutlineObjective(o domain.LearningObjective) outlineObjective {
	return outlineObjective{
		ID:    o.ID,
		Type:  string(o.Type),
		Order: o.Order,
		Text:  strings.TrimSpace(o.Text),
	}
}

func outlineModulesOf(mods []domain.Module) *outlineModules {
	if len(mods) == 0 {
		return nil
	}
	out := &outlineModules{Items: make([]outlineModule, 0, len(mods))}
	for _, m := range mods {
		om := outlineModule{
			Number:      m.Number,
			Duration:    m.Duration,
			Title:       strings.TrimSpace(m.Title),
			Description: strings.TrimSpace(m.Description),
		}
		for _, l := range m.Lessons {
			om.Lessons = append(om.Lessons, outlineLesson{
				Number:     l.Number,
				Duration:   l.Duration,
				Title:      strings.TrimSpace(l.Title),
				KeyPoints:  compactStrings(l.KeyPoints),
				Activities: compactStrings(l.Activities),
			})
		}
		out.Items = append(out.Items, om)
	}
	return out
}

func outlineAssessmentsOf(items []domain.Assessment) *outlineAssessments {
	if len(items) == 0 {
		return nil
	}
	out := &outlineAssessments{Items: make([]outlineAssessment, 0, len(items))}
	for _, a := range items {
		out.Items = append(out.Items, outlineAssessment{
			Type:         string(a.Type),
			PassingScore: a.PassingScore,
			Duration:     a.Duration,
			Title:        strings.TrimSpace(a.Title),
			Description:  strings.TrimSpace(a.Description),
			Criteria:     compactStrings(a.Criteria),
		})
	}
	return out
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		v := strings.TrimSpace(s)
		if v == "" {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
