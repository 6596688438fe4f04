package dto

// ManifestoIndexAction selects what an index-manifesto call does
type ManifestoIndexAction string

const (
	ManifestoActionAdd    ManifestoIndexAction = "add"
	ManifestoActionUpdate ManifestoIndexAction = "update"
	ManifestoActionRemove ManifestoIndexAction = "remove"
)

// IndexManifestoRequest is the payload for indexing a candidate manifesto
type IndexManifestoRequest struct {
	CandidateID int64                `json:"candidateId" binding:"required" example:"3"`
	ElectionID  int64                `json:"electionId" binding:"required" example:"1"`
	Text        string               `json:"text,omitempty"`
	Action      ManifestoIndexAction `json:"action" binding:"required" example:"add"`
}

// ChunkFailure records one chunk that could not be embedded or stored
type ChunkFailure struct {
	ChunkIndex int    `json:"chunkIndex" example:"4"`
	Reason     string `json:"reason" example:"embedding request failed"`
}

// IndexManifestoResponse reports the partial-failure-tolerant indexing outcome
type IndexManifestoResponse struct {
	Attempted int            `json:"attempted" example:"12"`
	Succeeded int            `json:"succeeded" example:"11"`
	Failures  []ChunkFailure `json:"failures,omitempty"`
}

// AskQuestionRequest is the manifesto Q&A payload
type AskQuestionRequest struct {
	ElectionID   int64   `json:"electionId" binding:"required" example:"1"`
	Question     string  `json:"question" binding:"required" example:"What do candidates propose about club funding?"`
	CandidateIDs []int64 `json:"candidateIds,omitempty"`
}

// SourceAttribution names one retrieved passage backing an answer
type SourceAttribution struct {
	CandidateID   int64   `json:"candidateId" example:"3"`
	CandidateName string  `json:"candidateName" example:"Mehmet Kaya"`
	ChunkIndex    int     `json:"chunkIndex" example:"2"`
	Similarity    float64 `json:"similarity" example:"0.83"`
}

// AskQuestionResponse carries the synthesized answer with its sources
type AskQuestionResponse struct {
	Answer       string              `json:"answer"`
	Sources      []SourceAttribution `json:"sources"`
	TotalSources int                 `json:"totalSources" example:"4"`
}

// RegenerateFAQResponse confirms a completed FAQ rebuild
type RegenerateFAQResponse struct {
	Generated int `json:"generated" example:"6"`
}
