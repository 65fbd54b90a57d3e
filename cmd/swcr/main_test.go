package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/dgallion1/swcr/internal/config"
	"github.com/dgallion1/swcr/internal/output"
)

const cFile = "/* demo */\n#include <stdio.h>\n\nint main(void)\n{\n\treturn 0;\n}\n"

// execute runs the root command and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.c"), []byte(cFile), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, s)
	}
	return result
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") || !strings.Contains(out, "swcr") {
		t.Errorf("--version output should contain name and version: %q", out)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, expected := range []string{"generate", "manual", "inspect", "--json", "--config"} {
		if !strings.Contains(out, expected) {
			t.Errorf("--help output should contain %q: %q", expected, out)
		}
	}
}

func TestRootCommand_JSONFlag_NoSubcommand(t *testing.T) {
	out, _, err := execute(t, "--json")
	if err == nil {
		t.Fatal("Expected error when running with --json but no subcommand")
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	if _, ok := decode(t, out)["error"]; !ok {
		t.Errorf("expected error key in %q", out)
	}
}

func TestGenerate_JSONReport(t *testing.T) {
	dir := sourceDir(t)
	outfile := filepath.Join(t.TempDir(), "listing.docx")

	out, _, err := execute(t, "generate", "--json", "-i", dir, "-o", outfile, "--verify")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	report := decode(t, out)
	if report["status"] != "completed" {
		t.Errorf("status = %v, want completed", report["status"])
	}
	if report["pages_printed"] != float64(1) {
		t.Errorf("pages_printed = %v, want 1", report["pages_printed"])
	}
	if report["verified"] != true {
		t.Errorf("verified = %v, want true", report["verified"])
	}
	if report["effective_lines"] != float64(5) {
		t.Errorf("effective_lines = %v, want 5", report["effective_lines"])
	}
}

func TestGenerate_HumanReport(t *testing.T) {
	dir := sourceDir(t)
	outfile := filepath.Join(t.TempDir(), "listing.pdf")

	out, _, err := execute(t, "generate", "--color", "never", "-i", dir, "-o", outfile, "--title", "Demo")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, expected := range []string{"found: 1", "printed: 1", "wrote " + outfile} {
		if !strings.Contains(out, expected) {
			t.Errorf("output should contain %q: %q", expected, out)
		}
	}
}

func TestGenerate_ConfigFileAndFlags(t *testing.T) {
	dir := sourceDir(t)
	outDir := t.TempDir()
	cfgPath := filepath.Join(outDir, "swcr.yaml")
	yaml := "title: Demo\nindirs: [" + dir + "]\nlines_per_page: 2\nmax_front_pages: 1\nmax_back_pages: 1\noutfile: " + filepath.Join(outDir, "from-config.docx") + "\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	outfile := filepath.Join(outDir, "from-flag.docx")

	out, _, err := execute(t, "generate", "--json", "--config", cfgPath, "-o", outfile)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	report := decode(t, out)
	if report["outfile"] != outfile {
		t.Errorf("outfile = %v, want %s", report["outfile"], outfile)
	}
	// 5 code lines at 2 per page is 3 pages; 1 + ellipsis + 1 are printed.
	if report["pages_total"] != float64(3) || report["pages_printed"] != float64(3) || report["pages_elided"] != float64(1) {
		t.Errorf("pages = %v/%v/%v, want 3/3/1", report["pages_total"], report["pages_printed"], report["pages_elided"])
	}
	if _, err := os.Stat(outfile); err != nil {
		t.Errorf("expected output at %s: %v", outfile, err)
	}
}

func TestGenerate_UserErrors(t *testing.T) {
	emptyDir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"missing input dir", []string{"generate", "-i", filepath.Join(emptyDir, "nope")}},
		{"bad blank policy", []string{"generate", "-i", emptyDir, "--blank-lines", "squash"}},
		{"bad format", []string{"generate", "-i", emptyDir, "-o", filepath.Join(emptyDir, "out.odt")}},
		{"no files", []string{"generate", "-i", emptyDir, "-o", filepath.Join(emptyDir, "out.pdf")}},
		{"bad log format", []string{"generate", "--log-format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := output.GetExitCode(err); code != output.ExitUserError {
				t.Errorf("exit code = %d, want %d (%v)", code, output.ExitUserError, err)
			}
			if !strings.Contains(errOut, "Error:") {
				t.Errorf("stderr should carry the error: %q", errOut)
			}
		})
	}
}

func TestInspect_JSON(t *testing.T) {
	dir := sourceDir(t)
	outfile := filepath.Join(t.TempDir(), "listing.docx")
	if _, _, err := execute(t, "generate", "-i", dir, "-o", outfile); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, _, err := execute(t, "inspect", "--json", "--text", outfile)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	sum := decode(t, out)
	if sum["format"] != "docx" || sum["pages"] != float64(1) {
		t.Errorf("summary = %v", sum)
	}
	if _, ok := sum["text"]; !ok {
		t.Error("expected text with --text")
	}
}

func TestInspect_Errors(t *testing.T) {
	_, _, err := execute(t, "inspect", "notes.txt")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("unsupported file: exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	_, _, err = execute(t, "inspect", filepath.Join(t.TempDir(), "missing.pdf"))
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("missing file: exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}

func TestManual(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "manual.md")
	if err := os.WriteFile(in, []byte("# Guide\n\nStart the service.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "manual.docx")

	stdout, _, err := execute(t, "manual", "--json", "--in", in, "--out", out, "--header", "Demo V1.0")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := decode(t, stdout)["header"]; got != "Demo V1.0" {
		t.Errorf("header = %v, want %q", got, "Demo V1.0")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %s: %v", out, err)
	}

	_, _, err = execute(t, "manual", "--in", filepath.Join(dir, "none.md"), "--out", out)
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("missing input: exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	_, _, err = execute(t, "manual", "--in", in, "--out", filepath.Join(dir, "manual.pdf"))
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("pdf output: exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}

func TestGenerateFlags_ApplyOnlyChanged(t *testing.T) {
	var flags generateFlags
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	flags.register(fs)
	if err := fs.Parse([]string{"--title", "Inventory", "--no-ellipsis", "--exts", "go,sql"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Version = "V9.9"
	cfg.LinesPerPage = 40
	flags.apply(fs, &cfg)

	if cfg.Title != "Inventory" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Inventory")
	}
	if cfg.Version != "V9.9" || cfg.LinesPerPage != 40 {
		t.Errorf("unset flags should keep loaded values, got %q/%d", cfg.Version, cfg.LinesPerPage)
	}
	if cfg.EllipsisPage {
		t.Error("expected --no-ellipsis to turn off the ellipsis page")
	}
	if strings.Join(cfg.Exts, ",") != "go,sql" {
		t.Errorf("Exts = %v, want [go sql]", cfg.Exts)
	}
}
