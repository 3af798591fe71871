package cli_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ocdcare/pkg/cli"
)

func writeDataset(t *testing.T) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Patient ID,Age,Family History of OCD,Duration of Symptoms (months),Depression Diagnosis,Anxiety Diagnosis\n")
	groups := []struct{ age, duration int }{{20, 6}, {45, 60}, {70, 200}}
	for _, g := range groups {
		for i := 0; i < 5; i++ {
			fmt.Fprintf(&sb, "P%d-%d,%d,No,%d,No,Yes\n", g.age, i, g.age+i, g.duration+i%2)
		}
	}

	path := filepath.Join(t.TempDir(), "dataset.csv")
	gt.NoError(t, os.WriteFile(path, []byte(sb.String()), 0600)).Required()
	return path
}

func run(args ...string) error {
	return cli.Run(context.Background(), append([]string{"ocdcare", "--log-format", "json", "--log-level", "error"}, args...))
}

func TestRunQuiz(t *testing.T) {
	answers := strings.TrimSuffix(strings.Repeat("yes,", 15)+strings.Repeat("no,", 15), ",")
	gt.NoError(t, run("quiz", "--answers", answers))

	gt.Error(t, run("quiz", "--answers", "yes,no"))
}

func TestRunModel(t *testing.T) {
	gt.NoError(t, run("model", "--dataset", writeDataset(t)))
	gt.NoError(t, run("model", "--dataset", writeDataset(t), "--cluster-labeling", "duration-rank"))

	gt.Error(t, run("model"))
	gt.Error(t, run("model", "--dataset", filepath.Join(t.TempDir(), "missing.csv")))
}

func TestRunClassify(t *testing.T) {
	path := writeDataset(t)

	gt.NoError(t, run("classify", "--dataset", path,
		"--age", "30", "--duration", "6", "--anxiety", "Yes", "--subtype", "Checking"))

	gt.Error(t, run("classify", "--dataset", path, "--age", "old", "--duration", "6"))
	gt.Error(t, run("classify", "--dataset", path, "--validation", "strict",
		"--age", "30", "--duration", "6", "--history", "maybe"))
}

func TestRunDatasetExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export.csv")
	gt.NoError(t, run("dataset", "export", "--dataset", writeDataset(t), "--output", out))

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()
	gt.S(t, string(data)).Contains("Duration of Symptoms (months)")
	gt.Equal(t, strings.Count(string(data), "\n"), 16)
}

func TestRunLoggerValidation(t *testing.T) {
	gt.Error(t, cli.Run(context.Background(), []string{"ocdcare", "--log-level", "trace", "quiz"}))
}

func TestRunDatasetImport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dataset.db")
	gt.NoError(t, run("dataset", "import", "--dataset", writeDataset(t), "--dataset-db", db))
	gt.NoError(t, run("model", "--dataset-db", db))

	gt.Error(t, run("dataset", "import", "--dataset-db", db))
	gt.Error(t, run("dataset", "import", "--dataset", writeDataset(t)))
}

func TestDatasetImportUsage(t *testing.T) {
	usage := cli.CmdDatasetImport().Usage
	gt.S(t, usage).Contains("SQLite")
	gt.S(t, usage).Contains("Firestore")
}
