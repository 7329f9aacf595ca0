package types

const (
	DefaultChapterID = "001"
	PersonEntityType = "Person"
	StatusCompleted  = "Completed"
)

// AnalysisRequest is one chapter submitted for analysis.
// Clients post an array of these; only the first is read.
type AnalysisRequest struct {
	ChapterID   *string `json:"chapterID"`
	ChapterName *string `json:"chapterName"`
}

// EntityTag is a single token (or merged span) labeled by the NER provider.
type EntityTag struct {
	Word        *string `json:"word,omitempty"`
	Entity      string  `json:"entity,omitempty"`
	EntityGroup string  `json:"entity_group,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Start       *int    `json:"start,omitempty"`
	End         *int    `json:"end,omitempty"`
}

// Label returns entity_group when set, else entity. Empty means unlabeled.
func (t EntityTag) Label() string {
	if t.EntityGroup != "" {
		return t.EntityGroup
	}
	return t.Entity
}

// AggregatedEntity is a unique person name and how often it was mentioned.
type AggregatedEntity struct {
	Name            string  `json:"name"`
	EntityType      string  `json:"entity_type"`
	Count           int     `json:"count"`
	ImportanceScore float64 `json:"importance_score"`
}

// AnalysisResult is the success body of POST /analyze-text.
type AnalysisResult struct {
	DocumentID       string             `json:"document_id"`
	NamedEntities    []AggregatedEntity `json:"named_entities"`
	TotalPersonCount int                `json:"total_person_count"`
	AnalysisStatus   string             `json:"analysis_status"`
}
