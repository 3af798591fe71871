package model

import (
	"time"

	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// SeverityVerdict is the engine's output for one screening
type SeverityVerdict struct {
	ID        types.VerdictID     `json:"id"`
	Source    types.VerdictSource `json:"source"`
	Label     types.SeverityLabel `json:"severity"`
	Counts    *QuizCounts         `json:"counts,omitempty"`
	Subtypes  []string            `json:"subtypes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewSeverityVerdict creates a verdict with a fresh ID and timestamp
func NewSeverityVerdict(source types.VerdictSource, label types.SeverityLabel) (*SeverityVerdict, error) {
	id, err := types.NewVerdictID()
	if err != nil {
		return nil, err
	}
	return &SeverityVerdict{
		ID:        id,
		Source:    source,
		Label:     label,
		CreatedAt: time.Now(),
	}, nil
}
