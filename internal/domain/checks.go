package domain

import (
	"math"
	"strings"
)

// IsValid is the presence check gating save in the editor: a title, a level
// and a thematic are required. Nothing else is validated.
func (c *Course) IsValid() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.Title) != "" && c.Level != "" && c.Thematic != ""
}

// CompletionPercentage scores ten presence checks and rounds to an integer
// percentage.
func (c *Course) CompletionPercentage() int {
	if c == nil {
		return 0
	}
	checks := []bool{
		strings.TrimSpace(c.Title) != "",
		strings.TrimSpace(c.Code) != "",
		c.Level != "",
		c.Thematic != "",
		strings.TrimSpace(c.Description) != "",
		strings.TrimSpace(c.Overview) != "",
		strings.TrimSpace(c.TargetAudience) != "",
		c.DurationHours > 0,
		c.DeliveryMethod != "",
		len(c.LearningObjectives) > 0,
	}
	done := 0
	for _, ok := range checks {
		if ok {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(checks)) * 100))
}

func (c *Course) TerminalObjectives() []LearningObjective {
	if c == nil {
		return nil
	}
	var out []LearningObjective
	for _, o := range c.LearningObjectives {
		if o.Type == ObjectiveTerminal {
			out = append(out, o)
		}
	}
	return out
}

// EnablingObjectives returns the enabling objectives attached to terminalID.
func (c *Course) EnablingObjectives(terminalID string) []LearningObjective {
	if c == nil {
		return nil
	}
	var out []LearningObjective
	for _, o := range c.LearningObjectives {
		if o.Type == ObjectiveEnabling && o.ParentID == terminalID {
			out = append(out, o)
		}
	}
	return out
}

// ThematicLabel is the thematic shown to users, resolving user-defined
// thematics to their free text.
func (c *Course) ThematicLabel() string {
	if c.Thematic == ThematicUserDefined && strings.TrimSpace(c.CustomThematic) != "" {
		return strings.TrimSpace(c.CustomThematic)
	}
	return string(c.Thematic)
}
