package misc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestCheckRequiredFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("info", "", "")
	cmd.MarkFlagRequired("info")
	if err := CheckRequiredFlags(cmd.Flags()); err == nil {
		t.Fatal("missing required flag was not reported")
	}
	if err := cmd.Flags().Set("info", "run.info"); err != nil {
		t.Fatal(err)
	}
	if err := CheckRequiredFlags(cmd.Flags()); err != nil {
		t.Fatal(err)
	}
}

func TestFlagValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("kmerSize", 4, "")
	flags.String("log", "", "")
	values := FlagValues(flags, true)
	if values != "--kmerSize=4\n" {
		t.Fatalf("unexpected flag values: %q", values)
	}
	if !strings.Contains(FlagValues(flags, false), "--log=\n") {
		t.Fatal("empty flag was skipped")
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.fa", "b.fasta.gz", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(">x\nA\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := CollectFiles(dir, []string{"fa", "fasta"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if err := CheckExt("c.txt", []string{"fa"}); err == nil {
		t.Fatal("unrecognised extension was accepted")
	}
	if _, err := CollectFiles(filepath.Join(dir, "missing"), []string{"fa"}); err == nil {
		t.Fatal("missing directory was accepted")
	}
	if err := CheckFile(filepath.Join(dir, "a.fa")); err != nil {
		t.Fatal(err)
	}
}

func TestPrintMemUsage(t *testing.T) {
	if !strings.Contains(PrintMemUsage(), "Heap Allocations") {
		t.Fatal("memory usage is missing the heap allocations")
	}
}
