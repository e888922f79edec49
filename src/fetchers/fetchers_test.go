package fetchers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"market-fetcher/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

// fakeNetwork serves canned responses keyed by URL substring.
type fakeNetwork struct {
	responses map[string][]byte
	err       error
	requests  []string
}

func (n *fakeNetwork) Get(url string, params map[string]string) ([]byte, error) {
	return n.GetWithHeaders(url, params, nil)
}

func (n *fakeNetwork) GetWithHeaders(url string, params map[string]string, headers map[string]string) ([]byte, error) {
	n.requests = append(n.requests, url)
	if n.err != nil {
		return nil, n.err
	}
	for key, body := range n.responses {
		if strings.Contains(url, key) {
			return body, nil
		}
	}
	return nil, fmt.Errorf("no canned response for %s", url)
}

// -----------------------------------------------------------------------------

func TestNormalizeRecordsDefaults(t *testing.T) {
	records := []models.MRecord{
		{Date: "2025-08-20", Source: "vendor-junk"},
		{Date: ""},
	}

	out := NormalizeRecords(records, "OCC Option Series")
	today := time.Now().UTC().Format("2006-01-02")

	assert.Equal(t, "2025-08-20", out[0].Date)
	assert.Equal(t, today, out[1].Date)
	for _, r := range out {
		assert.Equal(t, "OCC Option Series", r.Source)
		assert.NotEmpty(t, r.IngestTimestamp)
	}
}

// -----------------------------------------------------------------------------

func TestRegistryResolvesBuiltins(t *testing.T) {
	r := NewRegistry()
	net := &fakeNetwork{}

	for _, kind := range []string{KindOCCSeries, KindSECFTD, KindETFShares, KindYahooBars} {
		f, err := r.Resolve(kind, net)
		require.NoError(t, err)
		assert.Equal(t, kind, f.Name())
	}
}

// -----------------------------------------------------------------------------

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("carrier_pigeon", &fakeNetwork{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier_pigeon")
}

// -----------------------------------------------------------------------------

func TestRegistryKindsSorted(t *testing.T) {
	kinds := NewRegistry().Kinds()
	assert.Equal(t, []string{KindETFShares, KindOCCSeries, KindSECFTD, KindYahooBars}, kinds)
}
