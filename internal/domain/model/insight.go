package model

// InsightType discriminates the payload carried by an Insight.
type InsightType string

// Insight types produced by the generator.
const (
	InsightImprovement InsightType = "improvement"
	InsightDecline     InsightType = "decline"
	InsightCorrelation InsightType = "correlation"
)

// InsightScope says whether an insight concerns one student or the cohort.
type InsightScope string

// Insight scopes.
const (
	ScopeStudent InsightScope = "student"
	ScopeCohort  InsightScope = "cohort"
)

// CohortEntityID is the entity id used for cohort-scoped insights.
const CohortEntityID = "global"

// InsightPayload is the typed payload of an Insight. Exactly one concrete
// payload shape exists per insight type.
type InsightPayload interface {
	insightPayload()
}

// DeltaPayload backs improvement and decline insights.
type DeltaPayload struct {
	Delta        float64 `json:"delta"`
	AverageScore float64 `json:"avg_score"`
	PrevScore    float64 `json:"prev_score"`
	TimeLabel    string  `json:"time_label"`
}

func (DeltaPayload) insightPayload() {}

// CorrelationPayload backs correlation insights.
type CorrelationPayload struct {
	SubjectA    string  `json:"subject_a"`
	SubjectB    string  `json:"subject_b"`
	Correlation float64 `json:"correlation"`
}

func (CorrelationPayload) insightPayload() {}

// Insight is a typed, rule-derived observation about a student or the
// cohort. Description is the short unformatted phrase; the narrative
// renderer turns the whole record into human-readable text.
type Insight struct {
	Type        InsightType    `json:"type"`
	Scope       InsightScope   `json:"scope"`
	EntityID    string         `json:"entity_id"`
	Description string         `json:"description"`
	Payload     InsightPayload `json:"data"`
	Confidence  float64        `json:"confidence"`
}
