package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/netplan/pkg/application/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateData contains all data for rendering the HTML report
type TemplateData struct {
	*dto.Analysis
	DataJSON           template.JS
	SolveTimeFormatted string
	GeneratedAt        string
	DataDir            string
}

var templateFuncs = template.FuncMap{
	"money": money,
	"units": units,
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"cost":  func(line dto.CostLine) string { return money(line.Value.InexactFloat64()) },
}

// RenderHTML renders the analysis as a standalone HTML report. The full
// analysis is embedded as JSON for client-side tooling.
func RenderHTML(result *dto.Analysis, config Config) (string, error) {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report data: %w", err)
	}

	solveTime := config.SolveTime
	if solveTime == 0 {
		solveTime = time.Duration(result.RuntimeMS * float64(time.Millisecond))
	}

	data := &TemplateData{
		Analysis:           result,
		DataJSON:           template.JS(jsonData),
		SolveTimeFormatted: formatDuration(solveTime),
		GeneratedAt:        time.Now().Format("2006-01-02 15:04:05"),
		DataDir:            config.DataDir,
	}

	tmpl, err := template.New("report.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// formatDuration formats a time duration into human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// generateHTMLOutput writes report.html to the output directory, or the
// document to stdout when no directory is set
func generateHTMLOutput(result *dto.Analysis, config Config) error {
	html, err := RenderHTML(result, config)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	if config.OutputDir == "" {
		_, err := fmt.Fprint(config.out(), html)
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "report.html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "🌐 HTML report saved to: %s\n", filename)
	}
	return nil
}
