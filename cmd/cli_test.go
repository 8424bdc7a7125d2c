package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/metricmean-cli/internal/selector"
	"github.com/KaramelBytes/metricmean-cli/internal/stats"
	"github.com/xuri/excelize/v2"
)

const (
	testCSV1 = "country,gdp,population\nUSA,25000000,331000000\nChina,18000000,1440000000\n"
	testCSV2 = "Country,gdp,pop\nUSA,26000000,332000000\nAustralia,1543000,26000000\n"
)

// runCmd executes the root command with args, feeding stdin and capturing
// stdout and stderr.
func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// Reset sticky flag state that persists across invocations
	flagFiles = nil
	flagReport = ""
	cfgFile = ""
	debug = false
	for _, name := range []string{"files", "report"} {
		if fl := rootCmd.Flags().Lookup(name); fl != nil {
			fl.Changed = false
		}
	}
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func setup(t *testing.T, files map[string]string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(home, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return home
}

func TestCLI_MeanAcrossFiles(t *testing.T) {
	home := setup(t, map[string]string{"a.csv": testCSV1, "b.csv": testCSV2})
	a, b := filepath.Join(home, "a.csv"), filepath.Join(home, "b.csv")

	out, _, err := runCmd(t, "gdp\n", "--files", a, "--files", b, "--report", "gdp-by-country")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"REPORT: GDP-BY-COUNTRY", "25,500,000.00", "18,000,000.00", "1,543,000.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	iUSA, iChina, iAus := strings.LastIndex(out, "USA"), strings.LastIndex(out, "China"), strings.LastIndex(out, "Australia")
	if !(iUSA < iChina && iChina < iAus) {
		t.Fatalf("rows not sorted by value descending:\n%s", out)
	}
}

func TestCLI_RepromptsUntilValid(t *testing.T) {
	home := setup(t, map[string]string{"a.csv": testCSV1, "b.csv": testCSV2})
	files := filepath.Join(home, "a.csv") + "," + filepath.Join(home, "b.csv")

	out, _, err := runCmd(t, "country\nrevenue\ngdp\n", "--files", files, "--report", "r")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, `"country" is a grouping column`) {
		t.Fatalf("expected categorical rejection:\n%s", out)
	}
	if !strings.Contains(out, `Column "revenue" not found in `+filepath.Join(home, "b.csv")) {
		t.Fatalf("expected per-file diagnostic:\n%s", out)
	}
	if strings.Count(out, "Enter the metric column") != 3 {
		t.Fatalf("expected three prompts:\n%s", out)
	}
	if !strings.Contains(out, "25,500,000.00") {
		t.Fatalf("expected report after confirmation:\n%s", out)
	}
}

func TestCLI_ParseErrorProducesNoReport(t *testing.T) {
	home := setup(t, map[string]string{"bad.csv": "country,gdp\nUSA,25000000\nChina,N/A\n"})

	out, _, err := runCmd(t, "gdp\n", "--files", filepath.Join(home, "bad.csv"), "--report", "r")
	var pe *stats.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if strings.Contains(out, "REPORT:") || strings.Contains(out, "25,000,000.00") {
		t.Fatalf("expected no report output:\n%s", out)
	}
}

func TestCLI_InputExhausted(t *testing.T) {
	home := setup(t, map[string]string{"a.csv": testCSV1})
	_, _, err := runCmd(t, "year\n", "--files", filepath.Join(home, "a.csv"), "--report", "r")
	if !errors.Is(err, selector.ErrInputExhausted) {
		t.Fatalf("expected ErrInputExhausted, got %v", err)
	}
}

func TestCLI_MissingFileIsFatal(t *testing.T) {
	home := setup(t, nil)
	_, _, err := runCmd(t, "gdp\n", "--files", filepath.Join(home, "missing.csv"), "--report", "r")
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCLI_NoData(t *testing.T) {
	home := setup(t, map[string]string{"empty.csv": "country,gdp\n"})
	out, _, err := runCmd(t, "gdp\n", "--files", filepath.Join(home, "empty.csv"), "--report", "r")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, `No data found for metric "gdp"`) {
		t.Fatalf("expected no-data message:\n%s", out)
	}
	if strings.Contains(out, "REPORT:") {
		t.Fatalf("expected no table:\n%s", out)
	}
}

func TestCLI_RequiredFlags(t *testing.T) {
	setup(t, nil)
	if _, _, err := runCmd(t, "", "--report", "r"); err == nil {
		t.Fatalf("expected error without --files")
	}
	if _, _, err := runCmd(t, "", "--files", "a.csv"); err == nil {
		t.Fatalf("expected error without --report")
	}
}

func TestCLI_XLSXAndConfigDelimiter(t *testing.T) {
	home := setup(t, map[string]string{"semi.csv": "country;GDP\nUSA;25000000\n"})

	book := excelize.NewFile()
	rows := [][]any{{"Country", "gdp"}, {"USA", 26000000}, {"Chile", 300000}}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		if err := book.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	xlsx := filepath.Join(home, "b.xlsx")
	if err := book.SaveAs(xlsx); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = book.Close()

	cfgPath := filepath.Join(home, "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("delimiter: \";\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCmd(t, "gdp\n", "--config", cfgPath, "--files", filepath.Join(home, "semi.csv"), "--files", xlsx, "--report", "mixed")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "25,500,000.00") || !strings.Contains(out, "300,000.00") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setup(t, nil)
	if _, _, err := runCmd(t, "", "config", "set", "log_format", "json"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, _, err := runCmd(t, "", "config", "set", "delimiter", "#"); err == nil {
		t.Fatalf("expected invalid delimiter error")
	}
	out, _, err := runCmd(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "log_format: json") {
		t.Fatalf("expected saved log_format:\n%s", out)
	}
}
