package domain

// CoursePatch is a partial Course. Nil fields are absent; Apply replaces
// only the present ones (shallow merge, lists are replaced as a whole).
// It is also the shape of the "data" object returned by generation.
type CoursePatch struct {
	ID             *string         `json:"id,omitempty"`
	Code           *string         `json:"code,omitempty"`
	Title          *string         `json:"title,omitempty"`
	Level          *Level          `json:"level,omitempty"`
	Thematic       *Thematic       `json:"thematic,omitempty"`
	CustomThematic *string         `json:"customThematic,omitempty"`
	Status         *Status         `json:"status,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Overview       *string         `json:"overview,omitempty"`
	TargetAudience *string         `json:"targetAudience,omitempty"`
	DurationHours  *int            `json:"duration,omitempty"`
	DeliveryMethod *DeliveryMethod `json:"deliveryMethod,omitempty"`

	LearningObjectives *[]LearningObjective `json:"learningObjectives,omitempty"`
	Modules            *[]Module            `json:"modules,omitempty"`
	Assessments        *[]Assessment        `json:"assessments,omitempty"`
	Metadata           *Metadata            `json:"metadata,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p CoursePatch) Empty() bool {
	return p == CoursePatch{}
}

// Apply merges p into c in place.
func (p CoursePatch) Apply(c *Course) {
	if c == nil {
		return
	}
	setIf(&c.ID, p.ID)
	setIf(&c.Code, p.Code)
	setIf(&c.Title, p.Title)
	setIf(&c.Level, p.Level)
	setIf(&c.Thematic, p.Thematic)
	setIf(&c.CustomThematic, p.CustomThematic)
	setIf(&c.Status, p.Status)
	setIf(&c.Description, p.Description)
	setIf(&c.Overview, p.Overview)
	setIf(&c.TargetAudience, p.TargetAudience)
	setIf(&c.DurationHours, p.DurationHours)
	setIf(&c.DeliveryMethod, p.DeliveryMethod)
	if p.LearningObjectives != nil {
		c.LearningObjectives = cloneSlice(*p.LearningObjectives)
	}
	if p.Modules != nil {
		mods := make([]Module, len(*p.Modules))
		for i, m := range *p.Modules {
			mods[i] = m.clone()
		}
		c.Modules = mods
	}
	if p.Assessments != nil {
		c.Assessments = (&Course{Assessments: *p.Assessments}).Clone().Assessments
	}
	setIf(&c.Metadata, p.Metadata)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ObjectivePatch is a partial LearningObjective for in-place edits.
type ObjectivePatch struct {
	Type     *ObjectiveType `json:"type,omitempty"`
	Text     *string        `json:"text,omitempty"`
	ParentID *string        `json:"parentId,omitempty"`
	Order    *int           `json:"order,omitempty"`
}

func (p ObjectivePatch) Apply(o *LearningObjective) {
	setIf(&o.Type, p.Type)
	setIf(&o.Text, p.Text)
	setIf(&o.ParentID, p.ParentID)
	setIf(&o.Order, p.Order)
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
