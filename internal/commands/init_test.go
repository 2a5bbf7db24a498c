package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holerite-dev/holerite/internal/catalog"
	"github.com/holerite-dev/holerite/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "holerite-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "holerite")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/holerite")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runHolerite(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping")
	}
}

func initRepo(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runHolerite(t, append([]string{"init", dir, "--name", "Joao da Silva"}, args...)...)
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initRepo(t)

	expectedDirs := []string{
		"inbox",
		filepath.Join("inbox", "processed"),
		"catalog",
		"logs",
		"exports",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initRepo(t)

	data, err := os.ReadFile(filepath.Join(dir, "holerite.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Joao da Silva")
	assert.Contains(t, contents, "locale: pt-BR")
	assert.Contains(t, contents, "model: gross")

	cfg, err := config.Load(filepath.Join(dir, "holerite.yaml"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestInit_Catalog(t *testing.T) {
	dir := initRepo(t)

	svc, err := catalog.Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), len(catalog.DefaultCatalog("pt-BR")))
}

func TestInit_FrenchLocale(t *testing.T) {
	dir := initRepo(t, "--locale", "fr-FR")

	data, err := os.ReadFile(filepath.Join(dir, "holerite.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "locale: fr-FR")

	svc, err := catalog.Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), len(catalog.DefaultCatalog("fr-FR")))
}

func TestInit_UnknownLocale(t *testing.T) {
	out, err := runHolerite(t, "init", t.TempDir(), "--name", "X", "--locale", "de-DE")
	require.Error(t, err)
	assert.Contains(t, out, "unknown locale")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Holerite <holerite@localhost>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := initRepo(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "exports/")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runHolerite(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestVersion(t *testing.T) {
	out, err := runHolerite(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}
