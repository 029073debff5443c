package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/qsynth/internal/config"
	"github.com/Lumos-Labs-HQ/qsynth/template"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestFilterPrefix(t *testing.T) {
	names := []string{"random_double", "random_int", "uuid4"}
	if got := filterPrefix(names, "random_"); !slices.Equal(got, names[:2]) {
		t.Errorf("filterPrefix = %v", got)
	}
	if got := filterPrefix(names, ""); !slices.Equal(got, names) {
		t.Errorf("empty prefix should keep everything, got %v", got)
	}
	if got := filterPrefix(names, "zip"); len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

// TestInitThenRun writes the sample project and runs its file experiments.
func TestInitThenRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := execute(t, "init", "--sqlite"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, name := range []string{template.ModelFile, config.FileName, ".env"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("init did not create %s: %v", name, err)
		}
	}
	env, _ := os.ReadFile(".env")
	if !strings.Contains(string(env), "DATABASE_URL=sqlite://") {
		t.Errorf("unexpected .env %q", env)
	}

	if err := initializeProject(template.SQLite, false); err == nil {
		t.Error("second init without --force should fail")
	}

	if err := execute(t, "run", "-i", template.ModelFile, "-e", "csv,script", "--seed", "11"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, name := range []string{"out/shop/customers.csv", "out/shop/orders.csv", "out/shop.sql"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("run did not write %s: %v", name, err)
		}
	}

	customers, err := os.ReadFile(filepath.Join(dir, "out/shop/customers.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(customers), "\n"); lines != 21 {
		t.Errorf("customers.csv has %d lines, want header + 20 rows", lines)
	}
}

func TestHandleEnvFileAppends(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(".env", []byte("OTHER=1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := handleEnvFile("DATABASE_URL=x\n"); err != nil {
		t.Fatalf("handleEnvFile failed: %v", err)
	}
	got, _ := os.ReadFile(".env")
	if string(got) != "OTHER=1\n\n# Added by qsynth\nDATABASE_URL=x\n" {
		t.Errorf("unexpected .env %q", got)
	}

	// An existing DATABASE_URL is kept.
	if err := handleEnvFile("DATABASE_URL=y\n"); err != nil {
		t.Fatal(err)
	}
	again, _ := os.ReadFile(".env")
	if string(again) != string(got) {
		t.Errorf(".env changed to %q", again)
	}
}
