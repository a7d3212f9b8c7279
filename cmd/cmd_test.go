package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/cv"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestConfigDefaults(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())

	require.NoError(t, readConfig(""))

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", config.Server.Address)
	assert.Equal(t, 10, config.Server.MaxUploadMB)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:5174"}, config.Server.AllowedOrigins)
	assert.Equal(t, "gemini-2.5-flash", config.Gemini.Model)
	assert.Equal(t, float32(0), config.Gemini.Temperature)
	assert.Equal(t, int32(8000), config.Gemini.MaxOutputTokens)
	assert.Equal(t, 24*time.Hour, config.Cache.TTL)
	assert.Empty(t, config.Cache.RedisAddr)
}

func TestConfigFileAndEnv(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  address: ":9000"
  max-upload-mb: 5
gemini:
  model: gemini-2.5-pro
  max-retries: 5
cache:
  redis-addr: localhost:6379
  ttl: 1h
`), 0o600))

	t.Setenv("CV_PARSER_GEMINI_MODEL", "gemini-from-env")
	t.Setenv("CV_PARSER_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	require.NoError(t, readConfig(file))

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", config.Server.Address)
	assert.Equal(t, 5, config.Server.MaxUploadMB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.Server.AllowedOrigins)
	assert.Equal(t, "gemini-from-env", config.Gemini.Model)
	assert.Equal(t, 5, config.Gemini.MaxRetries)
	assert.Equal(t, "localhost:6379", config.Cache.RedisAddr)
	assert.Equal(t, time.Hour, config.Cache.TTL)
}

func TestConfigMissingExplicitFile(t *testing.T) {
	resetViper(t)

	assert.Error(t, readConfig(filepath.Join(t.TempDir(), "absent.yaml")))
}

func docxWithText(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestProcessWithDraft(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	require.NoError(t, readConfig(""))

	config, err := getConfig()
	require.NoError(t, err)

	dir := t.TempDir()
	draftFile := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(draftFile, []byte(`{
		"fullName": "Jane Doe",
		"employeeId": "E-1",
		"allSkills": [{"name": "Go"}, {"name": "Docker"}],
		"workExperience": [{"company": "Acme", "position": "Dev", "startDate": "2020-01-01", "endDate": "2021-01-01"}]
	}`), 0o600))

	record, err := processWithDraft(t.Context(), config, zap.NewNop(), "cv.docx", docxWithText(t, "Go, Go, Go and Docker"), draftFile)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Nil(t, record.EmployeeID)
	require.Len(t, record.AllSkills, 2)
	assert.Equal(t, 3, record.AllSkills[0].Mentions)
	assert.Equal(t, cv.DomainLanguages, record.PrimarySkill)
	assert.Equal(t, cv.DomainDevOps, record.SecondarySkill)
	assert.InDelta(t, 1.0, record.ExperienceYears, 0.001)

	_, err = processWithDraft(t.Context(), config, zap.NewNop(), "cv.docx", docxWithText(t, "Go"), filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	badDraft := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badDraft, []byte(`{"email": "x"}`), 0o600))
	_, err = processWithDraft(t.Context(), config, zap.NewNop(), "cv.docx", docxWithText(t, "Go"), badDraft)
	assert.ErrorIs(t, err, cv.ErrInvalidDraft)
}

func TestDomainReport(t *testing.T) {
	record := &cv.EmployeeRecord{
		AllSkills: []cv.Skill{
			{Name: "Docker", Mentions: 3},
			{Name: "Python", Mentions: 5},
			{Name: "AWS", Mentions: 4},
		},
		PrimarySkill:    cv.DomainDevOps,
		SecondarySkill:  cv.DomainLanguages,
		ExperienceYears: 3.2,
		WorkExperience: []cv.WorkExperience{
			{Company: "Acme", StartDate: "2020-01-01", EndDate: "2020-01-11"},
			{Company: "Broken", StartDate: "someday", EndDate: "Present"},
		},
	}

	r := domainReport(record)
	require.Len(t, r.Domains, 2)
	assert.Equal(t, cv.DomainTotal{Domain: cv.DomainDevOps, Mentions: 7}, r.Domains[0])
	assert.Equal(t, "Python", r.TopSkill)
	assert.Equal(t, "AWS", r.RunnerUpSkill)
	assert.Equal(t, 3.2, r.Experience)
	require.Len(t, r.Jobs, 2)
	assert.Equal(t, jobSpan{Company: "Acme", Days: 10}, r.Jobs[0])
	assert.NotEmpty(t, r.Jobs[1].Skipped)
}

func TestDumpToTmpFile(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	name, err := dumpToTmpFile(&cv.EmployeeRecord{FullName: "Jane"})
	require.NoError(t, err)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fullName": "Jane"`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() {
		versionCmd.SetOut(nil)
		_ = versionCmd.Flags().Set("short", "false")
	})

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "cv-parser version: unknown\n", out.String())

	out.Reset()
	require.NoError(t, versionCmd.Flags().Set("short", "true"))
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "unknown\n", out.String())
}
