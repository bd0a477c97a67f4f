package diagfmt

import (
	"encoding/json"
	"io"
)

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	RuleID           string `json:"ruleId"`
	Severity         string `json:"severity"`
	FilePath         string `json:"filePath"`
	Line             int    `json:"line"`
	Column           int    `json:"column"`
	Message          string `json:"message"`
	AgentInstruction string `json:"agentInstruction"`
	Fixable          bool   `json:"fixable"`
	CodeSnippet      string `json:"codeSnippet,omitempty"`
}

// ReportJSON is the root of the JSON output.
type ReportJSON struct {
	Score        int              `json:"score"`
	Label        string           `json:"label"`
	FilesScanned int              `json:"filesScanned"`
	Diagnostics  []DiagnosticJSON `json:"diagnostics"`
}

// BuildReportJSON формирует структуру JSON-вывода без сериализации.
func BuildReportJSON(rep *Report) ReportJSON {
	out := ReportJSON{
		Score:        rep.Score.Score,
		Label:        rep.Score.Label,
		FilesScanned: rep.FilesScanned,
		Diagnostics:  make([]DiagnosticJSON, 0, len(rep.Diagnostics)),
	}
	for _, d := range rep.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			RuleID:           d.RuleID,
			Severity:         d.Severity.String(),
			FilePath:         d.FilePath,
			Line:             d.Line,
			Column:           d.Column,
			Message:          d.Message,
			AgentInstruction: d.AgentInstruction,
			Fixable:          d.Fixable,
			CodeSnippet:      d.CodeSnippet,
		})
	}
	return out
}

// JSON пишет отчёт с отступами.
func JSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReportJSON(rep))
}
