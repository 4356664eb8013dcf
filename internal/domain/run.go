package domain

import (
	"time"

	"github.com/google/uuid"
)

// CoverageRun is a computed scenario kept for later retrieval.
// CreatedAt is truncated to milliseconds so every store round-trips it exactly.
type CoverageRun struct {
	ID        string             `json:"id" bson:"_id"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	Sources   []LightSource      `json:"sources" bson:"sources"`
	Plane     PlaneSpec          `json:"plane" bson:"plane"`
	Options   CalcOptions        `json:"options" bson:"options"`
	Result    *CalculationResult `json:"result" bson:"result"`
}

// NewCoverageRun wraps a result with a fresh ID and timestamp.
func NewCoverageRun(name string, sources []LightSource, plane PlaneSpec, opts CalcOptions, result *CalculationResult) *CoverageRun {
	return &CoverageRun{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Sources:   sources,
		Plane:     plane,
		Options:   opts,
		Result:    result,
	}
}
