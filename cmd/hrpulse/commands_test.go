package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-pulse/internal/db"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/types"
)

const jobsCSV = `Job Title,Salary Estimate,Job Description
"Data Scientist
4.1",$120K-$160K (Glassdoor est.),Python machine learning and SQL
Data Engineer,$100K-$130K,Spark Kafka and Python pipelines
Business Analyst,$55K-$70K,Excel reporting and dashboards
Office Assistant,Unknown,Filing and scheduling
`

type cliEnv struct {
	dir       string
	csvPath   string
	modelPath string
	dbPath    string
}

func setupCLI(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		dir:       dir,
		csvPath:   filepath.Join(dir, "jobs.csv"),
		modelPath: filepath.Join(dir, "models", "salary_model.json"),
		dbPath:    filepath.Join(dir, "hrpulse.db"),
	}
	require.NoError(t, os.WriteFile(env.csvPath, []byte(jobsCSV), 0o644))

	t.Setenv("DATABASE_URL", "sqlite://"+env.dbPath)
	t.Setenv("MODEL_PATH", env.modelPath)
	t.Setenv("DATA_PATH", env.csvPath)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("NER_PROVIDER", "azure")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("AZURE_LANGUAGE_ENDPOINT", "")
	t.Setenv("AZURE_LANGUAGE_KEY", "")
	return env
}

// execute runs the root command in-process. Flag variables are reset first
// because cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, timeout = "", 0
	ingestFile, ingestLimit, ingestJSON = "", DefaultIngestLimit, false
	trainFile, trainModel, trainJSON = "", "", false
	trainMaxFeatures, trainAlpha = salary.DefaultMaxFeatures, salary.DefaultAlpha
	predictTitle, predictDescription, predictModel, predictJSON = "", "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTrainThenPredict(t *testing.T) {
	env := setupCLI(t)

	out, err := execute(t, "train")
	require.NoError(t, err, out)
	assert.Contains(t, out, "SALARY MODEL")
	assert.Contains(t, out, "Samples:    3")
	assert.FileExists(t, env.modelPath)

	out, err = execute(t, "predict", "--title", "Data Scientist", "--description", "Python and SQL", "--json")
	require.NoError(t, err, out)

	var resp types.SalaryPredictResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Data Scientist", resp.JobTitle)
	assert.Greater(t, resp.PredictedSalaryUSD, 0.0)
	assert.Contains(t, []string{"high", "medium"}, resp.Confidence)
	assert.Equal(t, []string{"python", "sql"}, resp.Skills)

	out, err = execute(t, "predict", "-t", "Data Scientist", "-d", "Python")
	require.NoError(t, err, out)
	assert.Contains(t, out, "SALARY ESTIMATE")
}

func TestPredict_DescriptionOptional(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "train")
	require.NoError(t, err)

	out, err := execute(t, "predict", "--title", "Data Scientist", "--json")
	require.NoError(t, err, out)
	var resp types.SalaryPredictResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Greater(t, resp.PredictedSalaryUSD, 0.0)

	_, err = execute(t, "predict", "--description", "Python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"title" not set`)
}

func TestTrain_JSONReportAndModelFlag(t *testing.T) {
	env := setupCLI(t)
	other := filepath.Join(env.dir, "other.json")

	out, err := execute(t, "train", "--file", env.csvPath, "--model", other, "--json")
	require.NoError(t, err, out)

	var report salary.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Samples)
	assert.FileExists(t, other)
	assert.NoFileExists(t, env.modelPath)
}

func TestTrain_NoSalaries(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(env.dir, "nosalary.csv")
	require.NoError(t, os.WriteFile(path, []byte("Job Title,Job Description\nEngineer,Go\n"), 0o644))

	_, err := execute(t, "train", "--file", path)
	require.Error(t, err)
	var insufficient *salary.InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
	assert.NoFileExists(t, env.modelPath)
}

func TestPredict_WithoutModel(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "predict", "--title", "Engineer", "--description", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "train the model first")
}

func newFakeAzure(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AnalysisInput struct {
				Documents []struct {
					ID   string `json:"id"`
					Text string `json:"text"`
				} `json:"documents"`
			} `json:"analysisInput"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type entity struct {
			Text            string  `json:"text"`
			Category        string  `json:"category"`
			ConfidenceScore float64 `json:"confidenceScore"`
		}
		type document struct {
			ID       string   `json:"id"`
			Entities []entity `json:"entities"`
		}
		docs := []document{}
		for _, d := range req.AnalysisInput.Documents {
			entities := []entity{}
			if strings.Contains(d.Text, "Python") {
				entities = append(entities, entity{Text: "Python", Category: "Skill", ConfidenceScore: 0.97})
			}
			entities = append(entities, entity{Text: "2024", Category: "DateTime", ConfidenceScore: 0.8})
			docs = append(docs, document{ID: d.ID, Entities: entities})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"kind":    "EntityRecognitionResults",
			"results": map[string]any{"documents": docs, "errors": []any{}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIngest(t *testing.T) {
	env := setupCLI(t)
	azure := newFakeAzure(t)
	t.Setenv("AZURE_LANGUAGE_ENDPOINT", azure.URL)
	t.Setenv("AZURE_LANGUAGE_KEY", "test-key")

	out, err := execute(t, "ingest", "--limit", "3", "--json")
	require.NoError(t, err, out)

	var result struct {
		Normalized int         `json:"normalized"`
		Inserted   int         `json:"inserted"`
		Skills     int         `json:"skills"`
		Jobs       []types.Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 4, result.Normalized)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 2, result.Skills)

	store, err := db.OpenSQLite(context.Background(), env.dbPath)
	require.NoError(t, err)
	defer store.Close()
	jobs, err := store.SearchJobs(context.Background(), "python")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Data Scientist", jobs[0].JobTitle)
}

func TestIngest_MissingCredentialsStoresNothing(t *testing.T) {
	env := setupCLI(t)

	_, err := execute(t, "ingest", "--file", env.csvPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azure language endpoint is required")

	store, err := db.OpenSQLite(context.Background(), env.dbPath)
	require.NoError(t, err)
	defer store.Close()
	jobs, err := store.ListJobs(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestMigrate(t *testing.T) {
	env := setupCLI(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Database ready")
	assert.FileExists(t, env.dbPath)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://hr:xxxxx@db:5432/hrpulse", redactURL("postgres://hr:secret@db:5432/hrpulse"))
	assert.Equal(t, "sqlite://hrpulse.db", redactURL("sqlite://hrpulse.db"))
}
