package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"usagereports/internal/errs"
	"usagereports/internal/models"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"Zero bytes", 0, "0 B"},
		{"Bytes", 500, "500 B"},
		{"Kilobytes", 1500, "1.5 KB"},
		{"Megabytes", 1500000, "1.4 MB"},
		{"Gigabytes", 1500000000, "1.4 GB"},
		{"Terabytes", 1500000000000, "1.4 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestPrintJSON(t *testing.T) {
	testData := map[string]string{"key": "value"}

	var err error
	output := captureStdout(t, func() { err = PrintJSON(testData) })
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, testData, result)
}

func TestPrintYAML(t *testing.T) {
	data := models.ListResult{BucketName: "ocid1.tenancy.oc1..aaaa", ObjectCount: 2}

	var err error
	output := captureStdout(t, func() { err = PrintYAML(data) })
	require.NoError(t, err)

	var result models.ListResult
	require.NoError(t, yaml.Unmarshal([]byte(output), &result))
	assert.Equal(t, "ocid1.tenancy.oc1..aaaa", result.BucketName)
	assert.Equal(t, 2, result.ObjectCount)
}

func TestPrintError(t *testing.T) {
	output := captureStdout(t, func() {
		PrintError(errs.Wrap(errs.CodeList, "list objects", errors.New("test error")), "test-command")
	})

	var result models.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "list objects: test error", result.Error)
	assert.Equal(t, string(errs.CodeList), result.Code)
	assert.Equal(t, "test-command", result.Command)
}

func TestPrintErrorPlain(t *testing.T) {
	output := captureStdout(t, func() { PrintError(errors.New("boom"), "fetch") })

	var result models.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, string(errs.CodeUnknown), result.Code)
}

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2023-05-15T10:30:00Z", FormatTime(testTime))
}

func TestFormatDate(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	local := time.Date(2020, 1, 19, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	assert.Equal(t, "2020-01-20", FormatDate(local))
	assert.Equal(t, "2020-01-20", FormatDate(time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC)))
}

func TestPrintObjectTable(t *testing.T) {
	objects := []models.RemoteObject{
		{Name: "reports/cost-csv/0001.csv.gz", TimeCreated: time.Date(2020, 1, 20, 3, 0, 0, 0, time.UTC), Size: 2048},
		{Name: "reports/cost-csv/0002.csv.gz", TimeCreated: time.Date(2020, 1, 21, 3, 0, 0, 0, time.UTC), Size: 1024},
	}

	output := captureStdout(t, func() { PrintObjectTable(objects) })

	assert.Contains(t, output, "reports/cost-csv/0001.csv.gz")
	assert.Contains(t, output, "2020-01-21T03:00:00Z")
	assert.Contains(t, output, "Total: 2 objects, 3.0 KB")
}

func TestPrintDownloadTable(t *testing.T) {
	items := []models.DownloadItem{
		{RemotePath: "reports/cost-csv/0001.csv.gz", LocalPath: "/tmp/r/0001.csv.gz", TimeCreated: "2020-01-20", Size: 512},
	}

	output := captureStdout(t, func() { PrintDownloadTable(items) })

	assert.Contains(t, output, "/tmp/r/0001.csv.gz")
	assert.Contains(t, output, "2020-01-20")
	assert.Contains(t, output, "Total: 1 files, 512 B")
}
