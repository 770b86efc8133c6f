package app

import (
	"encoding/json"
	"io"

	"github.com/vk/pdeconf/internal/ctyval"
	"github.com/vk/pdeconf/internal/store"
)

// Report is the JSON document written to the output at the end of a run.
type Report struct {
	RunID  string        `json:"run_id"`
	Model  string        `json:"model,omitempty"`
	Frames []ReportFrame `json:"frames"`
}

// ReportFrame is one frame of a Report.
type ReportFrame struct {
	Step   int             `json:"step"`
	Time   float64         `json:"time"`
	Values json.RawMessage `json:"values"`
}

func writeReport(w io.Writer, run store.Run, frames []store.Frame) error {
	report := Report{RunID: run.ID, Model: run.Model, Frames: make([]ReportFrame, 0, len(frames))}
	for _, f := range frames {
		values, err := ctyval.Plain(f.Values)
		if err != nil {
			return err
		}
		report.Frames = append(report.Frames, ReportFrame{Step: f.Step, Time: f.Time, Values: values})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
