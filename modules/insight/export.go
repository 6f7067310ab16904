/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/valyala/fasttemplate"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

const defaultFilenamePattern = "export-{chart_id}-{timestamp}.csv"

// Exporter renders chart results to CSV files, optionally shipping a copy to
// S3-compatible object storage.
type Exporter struct {
	cfg ExportConfig
}

func NewExporter(cfg ExportConfig) *Exporter {
	if cfg.FilenamePattern == "" {
		cfg.FilenamePattern = defaultFilenamePattern
	}
	return &Exporter{cfg: cfg}
}

func (e *Exporter) Export(ctx context.Context, chart *insight.Chart, result *ChartDataResult) (util.MapStr, error) {
	filename := e.filename(chart)
	dir := e.cfg.Path
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to prepare export directory")
	}
	path := filepath.Join(dir, filename)

	if err := writeCSV(path, result); err != nil {
		return nil, err
	}

	summary := util.MapStr{
		"chart_id": chart.ID,
		"file":     path,
		"rows":     len(result.Rows),
	}
	if e.cfg.S3.Enabled {
		object, err := e.upload(ctx, path, filename)
		if err != nil {
			return nil, err
		}
		summary["bucket"] = e.cfg.S3.Bucket
		summary["object"] = object
	}
	return summary, nil
}

func (e *Exporter) filename(chart *insight.Chart) string {
	t := fasttemplate.New(e.cfg.FilenamePattern, "{", "}")
	return t.ExecuteString(map[string]interface{}{
		"chart_id":  chart.ID,
		"title":     chart.Title,
		"timestamp": util.IntToString(int(time.Now().Unix())),
	})
}

func writeCSV(path string, result *ChartDataResult) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := make([]string, 0, len(result.Columns))
	for _, col := range result.Columns {
		header = append(header, col.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range result.Rows {
		for i, name := range header {
			record[i] = ""
			if v, ok := row[name]; ok && v != nil {
				record[i] = util.ToString(v)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *Exporter) upload(ctx context.Context, path, object string) (string, error) {
	s3 := e.cfg.S3
	client, err := minio.New(s3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3.AccessKey, s3.SecretKey, ""),
		Secure: s3.UseSSL,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to build object storage client")
	}
	_, err = client.FPutObject(ctx, s3.Bucket, object, path, minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload export")
	}
	return object, nil
}
