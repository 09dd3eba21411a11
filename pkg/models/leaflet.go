package models

import "strings"

// Source tags reported with every SummaryResult.
const (
	SourceCached    = "cached"
	SourceGenerated = "generated"
)

// Summary field keys as stored in the document store and returned by the model.
const (
	KeyContraindications   = "contraindicacoes"
	KeyUsage               = "como_usar"
	KeyDosage              = "posologia"
	KeyAdverseReactions    = "reacoes_adversas"
	KeyRisksAndPrecautions = "riscos_cuidados"
)

// SummaryKeys lists the five recognized summary keys in prompt order.
var SummaryKeys = []string{
	KeyContraindications,
	KeyUsage,
	KeyDosage,
	KeyAdverseReactions,
	KeyRisksAndPrecautions,
}

// LeafletRecord is a stored medicine leaflet ("bula").
type LeafletRecord struct {
	// ID is the opaque document key assigned by the store.
	ID             string   `json:"id" firestore:"-" bson:"-"`
	OfficialName   string   `json:"nome_medicamento" firestore:"nome_medicamento" bson:"nome_medicamento"`
	AlternateNames []string `json:"nomes_alternativos,omitempty" firestore:"nomes_alternativos,omitempty" bson:"nomes_alternativos,omitempty"`
	FullText       string   `json:"bula_completa,omitempty" firestore:"bula_completa,omitempty" bson:"bula_completa,omitempty"`

	// Summary is written once by the summary provider and never regenerated.
	Summary *Summary `json:"resumos,omitempty" firestore:"resumos,omitempty" bson:"resumos,omitempty"`
}

// HasSummary reports whether the record carries a non-empty cached summary.
func (r *LeafletRecord) HasSummary() bool {
	return r.Summary != nil && !r.Summary.IsEmpty()
}

// Summary is the five-field structured leaflet summary.
type Summary struct {
	Contraindications   string `json:"contraindicacoes" firestore:"contraindicacoes" bson:"contraindicacoes"`
	Usage               string `json:"como_usar" firestore:"como_usar" bson:"como_usar"`
	Dosage              string `json:"posologia" firestore:"posologia" bson:"posologia"`
	AdverseReactions    string `json:"reacoes_adversas" firestore:"reacoes_adversas" bson:"reacoes_adversas"`
	RisksAndPrecautions string `json:"riscos_cuidados" firestore:"riscos_cuidados" bson:"riscos_cuidados"`
}

// IsEmpty reports whether every field is blank.
func (s Summary) IsEmpty() bool {
	for _, key := range SummaryKeys {
		if strings.TrimSpace(s.Get(key)) != "" {
			return false
		}
	}
	return true
}

// Get returns the value stored under one of the SummaryKeys.
func (s Summary) Get(key string) string {
	switch key {
	case KeyContraindications:
		return s.Contraindications
	case KeyUsage:
		return s.Usage
	case KeyDosage:
		return s.Dosage
	case KeyAdverseReactions:
		return s.AdverseReactions
	case KeyRisksAndPrecautions:
		return s.RisksAndPrecautions
	}
	return ""
}

// Set stores value under one of the SummaryKeys. Unknown keys are ignored.
func (s *Summary) Set(key, value string) {
	switch key {
	case KeyContraindications:
		s.Contraindications = value
	case KeyUsage:
		s.Usage = value
	case KeyDosage:
		s.Dosage = value
	case KeyAdverseReactions:
		s.AdverseReactions = value
	case KeyRisksAndPrecautions:
		s.RisksAndPrecautions = value
	}
}

// SummaryResult is returned to callers of the pipeline.
// JSON names follow the mobile client.
type SummaryResult struct {
	OfficialName string  `json:"nomeOficial"`
	Summary      Summary `json:"resumo"`
	Source       string  `json:"fonte"` // "cached" or "generated"
}
