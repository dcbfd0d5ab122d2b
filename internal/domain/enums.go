package domain

type Level string

const (
	LevelAwareness    Level = "awareness"
	LevelFoundational Level = "foundational"
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
	LevelSenior       Level = "senior"
)

// Levels lists every level in ascending order.
var Levels = []Level{
	LevelAwareness, LevelFoundational, LevelBasic, LevelIntermediate,
	LevelAdvanced, LevelExpert, LevelSenior,
}

func (l Level) Valid() bool { return contains(Levels, l) }

type Thematic string

const (
	ThematicDefenceSecurity Thematic = "defence-security"
	ThematicIntelligence    Thematic = "intelligence"
	ThematicPolicing        Thematic = "policing"
	ThematicLeadership      Thematic = "leadership"
	ThematicCrisisResponse  Thematic = "crisis-response"
	ThematicResilience      Thematic = "resilience"
	ThematicPersonalSkills  Thematic = "personal-skills"
	// ThematicUserDefined requires Course.CustomThematic.
	ThematicUserDefined Thematic = "user-defined"
)

var Thematics = []Thematic{
	ThematicDefenceSecurity, ThematicIntelligence, ThematicPolicing,
	ThematicLeadership, ThematicCrisisResponse, ThematicResilience,
	ThematicPersonalSkills, ThematicUserDefined,
}

func (t Thematic) Valid() bool { return contains(Thematics, t) }

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusApproved   Status = "APPROVED"
	StatusPublished  Status = "PUBLISHED"
	StatusArchived   Status = "ARCHIVED"
)

var Statuses = []Status{
	StatusDraft, StatusInProgress, StatusReview,
	StatusApproved, StatusPublished, StatusArchived,
}

func (s Status) Valid() bool { return contains(Statuses, s) }

type DeliveryMethod string

const (
	DeliveryILT        DeliveryMethod = "Instructor-Led Training (ILT)"
	DeliveryVILT       DeliveryMethod = "Virtual Instructor-Led Training (VILT)"
	DeliverySelfPaced  DeliveryMethod = "Self-Paced eLearning"
	DeliveryBlended    DeliveryMethod = "Blended Learning"
	DeliveryOnTheJob   DeliveryMethod = "On-the-Job Training"
	DeliveryWorkshop   DeliveryMethod = "Workshop"
	DeliverySeminar    DeliveryMethod = "Seminar"
	DeliverySimulation DeliveryMethod = "Simulation-Based Training"
	DeliveryMobile     DeliveryMethod = "Mobile Learning"
)

var DeliveryMethods = []DeliveryMethod{
	DeliveryILT, DeliveryVILT, DeliverySelfPaced, DeliveryBlended,
	DeliveryOnTheJob, DeliveryWorkshop, DeliverySeminar,
	DeliverySimulation, DeliveryMobile,
}

func (d DeliveryMethod) Valid() bool { return contains(DeliveryMethods, d) }

type AssessmentType string

const (
	AssessmentMultipleChoice AssessmentType = "Multiple Choice Quiz"
	AssessmentWritten        AssessmentType = "Written Assessment"
	AssessmentPractical      AssessmentType = "Practical Exercise"
	AssessmentScenario       AssessmentType = "Scenario-Based Assessment"
	AssessmentPerformance    AssessmentType = "Performance Evaluation"
	AssessmentPortfolio      AssessmentType = "Portfolio Review"
	AssessmentPeer           AssessmentType = "Peer Assessment"
	AssessmentSelf           AssessmentType = "Self-Assessment"
	AssessmentOral           AssessmentType = "Oral Examination"
	AssessmentCapstone       AssessmentType = "Capstone Project"
)

var AssessmentTypes = []AssessmentType{
	AssessmentMultipleChoice, AssessmentWritten, AssessmentPractical,
	AssessmentScenario, AssessmentPerformance, AssessmentPortfolio,
	AssessmentPeer, AssessmentSelf, AssessmentOral, AssessmentCapstone,
}

func (a AssessmentType) Valid() bool { return contains(AssessmentTypes, a) }

type ObjectiveType string

const (
	ObjectiveTerminal ObjectiveType = "terminal"
	ObjectiveEnabling ObjectiveType = "enabling"
)

func (o ObjectiveType) Valid() bool {
	return o == ObjectiveTerminal || o == ObjectiveEnabling
}

// GenerationType selects what the remote generator produces.
type GenerationType string

const (
	GenerateObjectives  GenerationType = "objectives"
	GenerateModules     GenerationType = "modules"
	GenerateAssessments GenerationType = "assessments"
	GenerateDescription GenerationType = "description"
	GenerateFull        GenerationType = "full"
)

var GenerationTypes = []GenerationType{
	GenerateObjectives, GenerateModules, GenerateAssessments,
	GenerateDescription, GenerateFull,
}

func (g GenerationType) Valid() bool { return contains(GenerationTypes, g) }

type ExportFormat string

const (
	ExportJSON  ExportFormat = "json"
	ExportPDF   ExportFormat = "pdf"
	ExportDOCX  ExportFormat = "docx"
	ExportSCORM ExportFormat = "scorm"
)

var ExportFormats = []ExportFormat{ExportJSON, ExportPDF, ExportDOCX, ExportSCORM}

func (f ExportFormat) Valid() bool { return contains(ExportFormats, f) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
