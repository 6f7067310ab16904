/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

func TestHTTPProviderFetchBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"region":"eu","revenue":100},{"region":"us","revenue":200}]`))
	}))
	defer server.Close()

	p := &HTTPProvider{}
	rows, err := p.Fetch(context.Background(), &insight.Datasource{
		Type:       "http",
		Connection: util.MapStr{"url": server.URL},
	}, &insight.Dataset{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "eu", rows[0]["region"])
}

func TestHTTPProviderFetchWrappedData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"region":"eu"}]}`))
	}))
	defer server.Close()

	p := &HTTPProvider{}
	rows, err := p.Fetch(context.Background(), &insight.Datasource{
		Type:       "http",
		Connection: util.MapStr{"url": server.URL},
	}, &insight.Dataset{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestHTTPProviderFetchNestedDataPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"rows":[{"region":"eu"},{"region":"us"}]}}`))
	}))
	defer server.Close()

	p := &HTTPProvider{}
	rows, err := p.Fetch(context.Background(), &insight.Datasource{
		Type:       "http",
		Connection: util.MapStr{"url": server.URL, "data_path": "result.rows"},
	}, &insight.Dataset{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "us", rows[1]["region"])

	// a path that leads nowhere is an error, not an empty result
	_, err = p.Fetch(context.Background(), &insight.Datasource{
		Type:       "http",
		Connection: util.MapStr{"url": server.URL, "data_path": "result.missing"},
	}, &insight.Dataset{})
	require.Error(t, err)
}

func TestHTTPProviderAppliesPathAndHeaders(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	p := &HTTPProvider{}
	_, err := p.Fetch(context.Background(), &insight.Datasource{
		Type: "http",
		Connection: util.MapStr{
			"url":     server.URL,
			"headers": map[string]interface{}{"Authorization": "Bearer token"},
		},
	}, &insight.Dataset{Query: util.MapStr{"path": "/rows"}})
	require.NoError(t, err)
	assert.Equal(t, "/rows", gotPath)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := &HTTPProvider{}
	_, err := p.Fetch(context.Background(), &insight.Datasource{
		Type:       "http",
		Connection: util.MapStr{"url": server.URL},
	}, &insight.Dataset{})
	require.Error(t, err)
}

func TestHTTPProviderMissingURL(t *testing.T) {
	p := &HTTPProvider{}
	err := p.Test(context.Background(), &insight.Datasource{Type: "http", Connection: util.MapStr{}})
	require.Error(t, err)
}

func TestInlineProviderClonesRows(t *testing.T) {
	dataset := &insight.Dataset{Rows: []util.MapStr{{"a": 1}}}
	p := &InlineProvider{}

	rows, err := p.Fetch(context.Background(), nil, dataset)
	require.NoError(t, err)
	rows[0]["a"] = 99

	assert.Equal(t, 1, dataset.Rows[0]["a"])
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	_, err := Get("mystery")
	require.Error(t, err)

	p, err := Get("inline")
	require.NoError(t, err)
	assert.NotNil(t, p)
}
