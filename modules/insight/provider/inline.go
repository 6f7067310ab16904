/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package provider

import (
	"context"

	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// InlineProvider serves rows stored in the dataset definition itself, handy
// for small samples and tests.
type InlineProvider struct {
}

func (p *InlineProvider) Fetch(ctx context.Context, datasource *insight.Datasource, dataset *insight.Dataset) ([]util.MapStr, error) {
	rows := make([]util.MapStr, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		rows = append(rows, row.Clone())
	}
	return rows, nil
}

func (p *InlineProvider) Test(ctx context.Context, datasource *insight.Datasource) error {
	return nil
}
