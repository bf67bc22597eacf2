package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// EvalRecord is one row of optimize_log.csv. Parameter columns follow
// NewParamVector order.
type EvalRecord struct {
	Eval             int     `csv:"eval"`
	Fitness          float64 `csv:"fitness"`
	CohesionBias     float64 `csv:"cohesion_bias"`
	SeparationBias   float64 `csv:"separation_bias"`
	AlignmentBias    float64 `csv:"alignment_bias"`
	TargetBias       float64 `csv:"target_bias"`
	PerceptionRadius float64 `csv:"perception_radius"`
}

// NewEvalRecord builds a row from clamped parameter values.
func NewEvalRecord(eval int, fitness float64, values []float64) EvalRecord {
	return EvalRecord{
		Eval:             eval,
		Fitness:          fitness,
		CohesionBias:     values[0],
		SeparationBias:   values[1],
		AlignmentBias:    values[2],
		TargetBias:       values[3],
		PerceptionRadius: values[4],
	}
}

// EvalLog appends evaluation rows to a CSV file, flushing every row.
type EvalLog struct {
	file          *os.File
	headerWritten bool
}

// NewEvalLog creates (truncating) the log file at path.
func NewEvalLog(path string) (*EvalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &EvalLog{file: f}, nil
}

// Append writes one row, preceded by the header on first use.
func (l *EvalLog) Append(r EvalRecord) error {
	records := []EvalRecord{r}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(records, l.file)
	}
	return gocsv.MarshalWithoutHeaders(records, l.file)
}

// Close closes the log file.
func (l *EvalLog) Close() error {
	return l.file.Close()
}
