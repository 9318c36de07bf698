package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dcf-engine/internal/snapshot"
)

const legacySave = `{"rows":[{"end":"2","expr":"100"},{"end":"4","expr":"0.05*y"}],
"growth":"1.02","discount":"1.08","ode_step_size":"0.01","use_log_scale":false}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestComputeLegacySave(t *testing.T) {
	t.Setenv("DCF_CONFIG", "")
	path := filepath.Join(t.TempDir(), "saved.json")
	if err := os.WriteFile(path, []byte(legacySave), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "compute", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"CUMULATIVE", "92.59", "Total DCF"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConvertToYAML(t *testing.T) {
	t.Setenv("DCF_CONFIG", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "saved.json")
	out := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(in, []byte(legacySave), 0o644); err != nil {
		t.Fatal(err)
	}

	if msg, err := execute(t, "convert", in, out); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, msg)
	}
	m, format, err := snapshot.Load(out)
	if err != nil {
		t.Fatalf("load converted model: %v", err)
	}
	if format != snapshot.FormatYAML || len(m.Segments) != 3 || m.DiscountRate != 1.08 {
		t.Fatalf("unexpected converted model %+v (%s)", m, format)
	}
}

func TestEval(t *testing.T) {
	t.Setenv("DCF_CONFIG", "")
	out, err := execute(t, "eval", "2 * t", "--t", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "6\t(time_function)") {
		t.Fatalf("unexpected output %q", out)
	}
}
