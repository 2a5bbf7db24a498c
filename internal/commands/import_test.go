package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/holerite-dev/holerite/internal/archive"
	"github.com/holerite-dev/holerite/internal/runlog"
)

func copyToInbox(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		data, err := os.ReadFile(fixture(name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "inbox", name), data, 0o644))
	}
}

func TestImport_ArchivesInboxInOrder(t *testing.T) {
	dir := initRepo(t)
	copyToInbox(t, dir, "bulletin_entities.json", "bulletin_llm.json", "bulletin_ocr.txt")

	out, err := runHolerite(t, "import", "--repo", dir, "--workers", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 3, review 0, failed 0")

	records, err := archive.NewService(dir).Records(2025, 1)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-01-001", records[0].ID)
	assert.Equal(t, "bulletin_entities.json", records[0].Source)
	assert.Equal(t, "bulletin_llm.json", records[1].Source)
	assert.Equal(t, "bulletin_ocr.txt", records[2].Source)
	for _, r := range records {
		assert.True(t, r.Consistent, r.Source)
		assert.Equal(t, "644.78", r.Analysis.NetSalary.StringFixed(2), r.Source)
	}

	for _, name := range []string{"bulletin_entities.json", "bulletin_llm.json", "bulletin_ocr.txt"} {
		_, err := os.Stat(filepath.Join(dir, "inbox", "processed", name))
		assert.NoError(t, err, "%s should be moved to processed", name)
	}

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Len(t, runlog.ByRun(entries, entries[0].RunID), 3)
	assert.Equal(t, "text", entries[2].Details)
}

func TestImport_FailedFileStaysInInbox(t *testing.T) {
	dir := initRepo(t)
	copyToInbox(t, dir, "bulletin_entities.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inbox", "broken.json"), []byte("{"), 0o644))

	out, err := runHolerite(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, out, "Imported 1, review 0, failed 1")
	assert.Contains(t, out, "broken.json")

	_, err = os.Stat(filepath.Join(dir, "inbox", "broken.json"))
	assert.NoError(t, err, "failed document stays in inbox")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.Equal(t, runlog.StatusOK, entries[1].Status)
}

func TestImport_EmptyInbox(t *testing.T) {
	dir := initRepo(t)
	out, err := runHolerite(t, "import", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No documents in inbox.")
}

func TestImport_RequiresProject(t *testing.T) {
	_, err := runHolerite(t, "import", "--repo", t.TempDir())
	require.Error(t, err)
}

func TestImport_Commits(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	copyToInbox(t, dir, "bulletin_entities.json")

	out, err := runHolerite(t, "import", "--repo", dir)
	require.NoError(t, err, out)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "import: 1 payslips")
}

func TestSummaryAndExport(t *testing.T) {
	dir := initRepo(t)
	copyToInbox(t, dir, "bulletin_entities.json", "bulletin_ocr.txt")
	out, err := runHolerite(t, "import", "--repo", dir)
	require.NoError(t, err, out)

	out, err = runHolerite(t, "summary", "--repo", dir, "--year", "2025", "--categories")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-01")
	assert.Contains(t, out, "2688.46")
	assert.Contains(t, out, "social_security")

	out, err = runHolerite(t, "summary", "--repo", dir, "--year", "2019")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No payslips archived for 2019")

	out, err = runHolerite(t, "export", "--repo", dir, "--year", "2025")
	require.NoError(t, err, out)
	path := filepath.Join(dir, "exports", "holerite-2025.xlsx")
	assert.Contains(t, out, "Exported 2 payslips")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Payslips")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two payslips")
}
