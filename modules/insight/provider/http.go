/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package provider

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/jsonq"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// HTTPProvider fetches rows from a JSON endpoint. The connection blob holds
// `url` and optional `headers`, the dataset query may add a `path` suffix.
type HTTPProvider struct {
	Client *http.Client
}

func (p *HTTPProvider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (p *HTTPProvider) Fetch(ctx context.Context, datasource *insight.Datasource, dataset *insight.Dataset) ([]util.MapStr, error) {
	url, err := p.endpoint(datasource)
	if err != nil {
		return nil, err
	}
	if dataset.Query != nil {
		if v, err := dataset.Query.GetValue("path"); err == nil {
			url += util.ToString(v)
		}
	}

	body, err := p.get(ctx, datasource, url)
	if err != nil {
		return nil, err
	}
	dataPath := ""
	if v, err1 := datasource.Connection.GetValue("data_path"); err1 == nil {
		dataPath = util.ToString(v)
	}
	return decodeRows(body, dataPath)
}

func (p *HTTPProvider) Test(ctx context.Context, datasource *insight.Datasource) error {
	url, err := p.endpoint(datasource)
	if err != nil {
		return err
	}
	_, err = p.get(ctx, datasource, url)
	return err
}

func (p *HTTPProvider) endpoint(datasource *insight.Datasource) (string, error) {
	if datasource == nil || datasource.Connection == nil {
		return "", errors.New("http datasource connection is not configured")
	}
	v, err := datasource.Connection.GetValue("url")
	if err != nil {
		return "", errors.New("http datasource requires connection.url")
	}
	return util.ToString(v), nil
}

func (p *HTTPProvider) get(ctx context.Context, datasource *insight.Datasource, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if v, err1 := datasource.Connection.GetValue("headers"); err1 == nil {
		if headers, ok := v.(map[string]interface{}); ok {
			for k, hv := range headers {
				req.Header.Set(k, util.ToString(hv))
			}
		}
	}

	resp, err := p.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, errors.Errorf("datasource endpoint returned status %v", resp.StatusCode)
	}
	return ioutil.ReadAll(resp.Body)
}

// decodeRows accepts either a bare JSON array of objects or an object whose
// rows live under `data`, or under a dotted path configured as
// `connection.data_path` (eg. `result.rows`).
func decodeRows(body []byte, dataPath string) ([]util.MapStr, error) {
	var arr []util.MapStr
	if err := util.FromJSONBytes(body, &arr); err == nil {
		return arr, nil
	}

	doc := map[string]interface{}{}
	if err := util.FromJSONBytes(body, &doc); err != nil {
		return nil, errors.New("datasource response is not valid JSON")
	}
	path := []string{"data"}
	if dataPath != "" {
		path = strings.Split(dataPath, ".")
	}
	items, err := jsonq.NewQuery(doc).ArrayOfObjects(path...)
	if err != nil {
		return nil, errors.Errorf("datasource response has no row array at [%v]", strings.Join(path, "."))
	}
	rows := make([]util.MapStr, 0, len(items))
	for _, item := range items {
		rows = append(rows, util.MapStr(item))
	}
	return rows, nil
}
