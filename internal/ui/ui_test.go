package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

func TestTable_Render(t *testing.T) {
	table := Table{
		Title:   "Repository Stats",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Commits", "100"},
			{"Conventional Compliance", "75%"},
		},
	}

	out := table.Render()
	for _, want := range []string{"Repository Stats", "METRIC", "VALUE", "Total Commits", "100", "75%", "┼"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title, header, separator and 2 rows, got %d lines", len(lines))
	}
	width := lipgloss.Width(lines[1])
	for _, line := range lines[2:] {
		if lipgloss.Width(line) != width {
			t.Errorf("misaligned line %q", line)
		}
	}
}

func TestTable_Empty(t *testing.T) {
	if out := (Table{}).Render(); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}

	out := Table{Rows: [][]string{{"a", "b"}}}.Render()
	if strings.Contains(out, "┼") {
		t.Error("headerless table should not render a separator")
	}
}

func TestLooksNumeric(t *testing.T) {
	tests := map[string]bool{
		"100":   true,
		"75%":   true,
		"0.5":   true,
		"+3000": true,
		"-30":   true,
		"":      false,
		"1.2.3": false,
		"2h":    false,
		"alice": false,
	}
	for in, want := range tests {
		if got := looksNumeric(in); got != want {
			t.Errorf("looksNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNumericColumns(t *testing.T) {
	table := Table{Rows: [][]string{{"feat", "40"}, {"fix", "30"}}}
	numeric := table.numericColumns(2)
	if numeric[0] || !numeric[1] {
		t.Errorf("unexpected numeric columns %v", numeric)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "warn", false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("expected warn level, got %s", logger.GetLevel())
	}

	verbose, err := NewLogger(&buf, "error", false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verbose.GetLevel() != logrus.DebugLevel {
		t.Errorf("verbose should force debug level, got %s", verbose.GetLevel())
	}

	defaults, err := NewLogger(&buf, "", false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if defaults.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level by default, got %s", defaults.GetLevel())
	}

	if _, err := NewLogger(&buf, "loud", false, false); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.WithField("repo", "demo").Info("commits collected")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "commits collected" || entry["repo"] != "demo" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSpinner_DisabledIsNoop(t *testing.T) {
	sp := &Spinner{enabled: false}
	sp.Start()
	sp.UpdateMessage("still working")
	sp.Stop()
	if sp.Enabled() {
		t.Error("expected disabled spinner")
	}
}
