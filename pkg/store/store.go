// Package store persists reference tables and analysis runs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edp1096/toy-machine/pkg/lut"
)

// LUTRecord is a reference table as stored: samples, open-circuit flux and
// the circuit snapshot it was computed with.
type LUTRecord struct {
	Name    string
	Ref     lut.ReferenceEEC
	Samples []lut.Sample
	PhiMag  [][2]float64
	Created time.Time
}

func RecordFromLUT(l *lut.LUTdq) LUTRecord {
	return LUTRecord{
		Name:    l.Name,
		Ref:     l.GetEEC(),
		Samples: l.Samples(),
		PhiMag:  l.PhiMag(),
		Created: time.Now().UTC(),
	}
}

// Build rebuilds the table with the given interpolation options.
func (r LUTRecord) Build(opts lut.Options) (*lut.LUTdq, error) {
	return lut.NewLUTdq(r.Name, r.Samples, r.PhiMag, r.Ref, opts)
}

// RunRecord keeps the result vectors of one analysis run.
type RunRecord struct {
	ID      string               `json:"id"`
	Kind    string               `json:"kind"` // eec or loss
	Deck    string               `json:"deck"`
	Results map[string][]float64 `json:"results"`
	Created time.Time            `json:"created"`
}

func NewRunRecord(kind, deck string, results map[string][]float64) RunRecord {
	return RunRecord{
		ID:      uuid.NewString(),
		Kind:    kind,
		Deck:    deck,
		Results: results,
		Created: time.Now().UTC(),
	}
}

type Store interface {
	Init(ctx context.Context) error
	SaveLUT(ctx context.Context, name string, rec LUTRecord) error
	GetLUT(ctx context.Context, name string) (LUTRecord, bool, error)
	ListLUTs(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	Close() error
}
