package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd(viper.New())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestExpandCommand(t *testing.T) {
	out, err := execute(t, "expand", "developer")
	require.NoError(t, err)

	var sets []search.ExpandedTermSet
	require.NoError(t, json.Unmarshal([]byte(out), &sets))
	require.Len(t, sets, 1)
	assert.Equal(t, "developer", sets[0].Original)
	assert.Contains(t, sets[0].Expanded, "engineer")
}

func TestLocationsCommand(t *testing.T) {
	out, err := execute(t, "locations", "tamil", "nadu")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, "chennai")
	assert.Contains(t, names, "t nagar")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "synonym groups:")
	assert.Contains(t, out, "places:")

	dir := t.TempDir()
	bad := filepath.Join(dir, "gazetteer.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("places:\n  - key: a\n    kind: city\n    parent: nowhere\n"), 0o600))

	_, err = execute(t, "validate", "--gazetteer", bad)
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.json")

	data, err := json.Marshal(map[string]interface{}{
		"manpower": []listing.Manpower{
			{ID: uuid.New(), JobTitle: "Electrician", Location: "Chennai", AvailabilityStatus: listing.StatusAvailable},
			{ID: uuid.New(), JobTitle: "Electrician", Location: "Chennai", AvailabilityStatus: listing.StatusBusy},
			{ID: uuid.New(), JobTitle: "Welder", Location: "Mumbai"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := execute(t, "search", "manpower", "-f", path, "-k", "electrician", "-l", "madras", "--filter", "availability=available")
	require.NoError(t, err)

	var resp struct {
		Count   int `json:"count"`
		Results []struct {
			AvailabilityStatus string `json:"availability_status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, listing.StatusAvailable, resp.Results[0].AvailabilityStatus)

	_, err = execute(t, "search", "boats", "-f", path)
	assert.Error(t, err)

	_, err = execute(t, "search", "manpower")
	assert.Error(t, err)
}

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"job_type=contract", " industry = IT "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"job_type": "contract", "industry": "IT"}, filters)

	filters, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, filters)

	_, err = parseFilters([]string{"contract"})
	assert.Error(t, err)
}

func TestParseEvent(t *testing.T) {
	id := uuid.New()

	e, err := parseEvent([]string{"manpower", id.String(), "updated"})
	require.NoError(t, err)
	assert.Equal(t, listing.KindManpower, e.Kind)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "listing.manpower.updated", e.Subject("listing"))

	_, err = parseEvent([]string{"boat", id.String(), "updated"})
	assert.Error(t, err)

	_, err = parseEvent([]string{"job", "nope", "updated"})
	assert.Error(t, err)

	_, err = parseEvent([]string{"job", id.String(), "archived"})
	assert.Error(t, err)
}
