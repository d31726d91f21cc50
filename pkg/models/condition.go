package models

// Grade is the closed set of condition values an assessor can record.
// The empty string is the explicit "unset" variant: rules treat it as
// "no information", never as a matchable condition.
type Grade string

const (
	GradeUnset     Grade = ""
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
	GradeFailed    Grade = "failed"
)

// IsValid checks membership in the closed grade set.
func (g Grade) IsValid() bool {
	switch g {
	case GradeUnset, GradeExcellent, GradeGood, GradeFair, GradePoor, GradeFailed:
		return true
	}
	return false
}

// AtLeastGood reports whether the grade is at or above the "good" threshold,
// i.e. no repair cost is generated for it.
func (g Grade) AtLeastGood() bool {
	return g == GradeGood || g == GradeExcellent
}

// PipeMaterial classifies supply plumbing. Galvanized and polybutylene
// lines trigger a repipe line item regardless of the plumbing grade.
type PipeMaterial string

const (
	PipeUnknown      PipeMaterial = ""
	PipeCopper       PipeMaterial = "copper"
	PipePEX          PipeMaterial = "pex"
	PipeGalvanized   PipeMaterial = "galvanized"
	PipePolybutylene PipeMaterial = "polybutylene"
	PipeCastIron     PipeMaterial = "cast_iron"
)

// RoofAssessment covers the roof surface and structure.
type RoofAssessment struct {
	Grade    Grade `json:"grade"`
	AgeYears int   `json:"age_years"`
}

// SystemAssessment is the generic grade-plus-age record used for HVAC and
// other mechanical systems.
type SystemAssessment struct {
	Grade    Grade `json:"grade"`
	AgeYears int   `json:"age_years"`
}

// PlumbingAssessment adds pipe material to the system grade.
type PlumbingAssessment struct {
	Grade        Grade        `json:"grade"`
	PipeMaterial PipeMaterial `json:"pipe_material"`
}

// GradeAssessment is a bare condition grade for simple sub-systems.
type GradeAssessment struct {
	Grade Grade `json:"grade"`
}

// ExteriorAssessment splits the envelope into the three sqft-scaled surfaces.
type ExteriorAssessment struct {
	Siding  Grade `json:"siding"`
	Paint   Grade `json:"paint"`
	Windows Grade `json:"windows"`
}

// PoolAssessment records presence and condition of a pool.
type PoolAssessment struct {
	Present bool  `json:"present"`
	Grade   Grade `json:"grade"`
}

// IssueFlag marks a discrete defect (mold, termites, ...) with optional
// free-text detail from the inspection notes.
type IssueFlag struct {
	Present bool   `json:"present"`
	Detail  string `json:"detail,omitempty"`
}

// ConditionAssessment is the structured inspection record supplied by the
// deal store. Sub-records are pointers: a nil sub-record means the assessor
// never looked at that system, which the rules engine must treat as
// "all fields unknown" rather than an error.
type ConditionAssessment struct {
	Overall    Grade                `json:"overall"`
	Roof       *RoofAssessment      `json:"roof,omitempty"`
	Foundation *GradeAssessment     `json:"foundation,omitempty"`
	HVAC       *SystemAssessment    `json:"hvac,omitempty"`
	Plumbing   *PlumbingAssessment  `json:"plumbing,omitempty"`
	Electrical *GradeAssessment     `json:"electrical,omitempty"`
	Kitchen    *GradeAssessment     `json:"kitchen,omitempty"`
	Bathrooms  []Grade              `json:"bathrooms,omitempty"`
	Bedrooms   []Grade              `json:"bedrooms,omitempty"`
	Interior   *GradeAssessment     `json:"interior,omitempty"`
	Exterior   *ExteriorAssessment  `json:"exterior,omitempty"`
	Pool       *PoolAssessment      `json:"pool,omitempty"`

	Mold             IssueFlag `json:"mold"`
	Termites         IssueFlag `json:"termites"`
	WaterDamage      IssueFlag `json:"water_damage"`
	FireDamage       IssueFlag `json:"fire_damage"`
	StructuralIssues IssueFlag `json:"structural_issues"`
	CodeViolations   IssueFlag `json:"code_violations"`

	FloodZone bool   `json:"flood_zone"`
	Notes     string `json:"notes,omitempty"`
}
