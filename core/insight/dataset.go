/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"sort"

	"infini.sh/insight/core/orm"
	"infini.sh/insight/core/util"
)

// Dataset is a named, reusable query definition against a datasource.
type Dataset struct {
	orm.ORMObjectBase

	WorkspaceID  string `json:"workspace_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DatasourceID string `json:"datasource_id"`

	// Query is the stored query definition, interpreted by the datasource
	// provider.
	Query util.MapStr `json:"query,omitempty"`

	// Fields is the declared schema, empty means unknown.
	Fields []FieldDef `json:"fields,omitempty"`

	// Rows backs the `inline` provider.
	Rows []util.MapStr `json:"rows,omitempty"`
}

type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// HasField reports whether the declared schema contains the field. An empty
// schema matches everything, validation is skipped then.
func (d *Dataset) HasField(name string) bool {
	if len(d.Fields) == 0 {
		return true
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Datasource is a connection configuration to an external data store.
type Datasource struct {
	orm.ORMObjectBase

	WorkspaceID string `json:"workspace_id"`
	Title       string `json:"title"`
	Type        string `json:"type"` // inline | http

	// Connection is provider specific.
	Connection util.MapStr `json:"connection,omitempty"`
}

// Column describes one output column of a computed row set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ColumnsOf infers column metadata from the first row.
func ColumnsOf(rows []util.MapStr) []Column {
	if len(rows) == 0 {
		return nil
	}
	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, Column{Name: name, Type: typeName(rows[0][name])})
	}
	return columns
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64, int32, uint, uint64:
		return "number"
	case map[string]interface{}, util.MapStr:
		return "object"
	case []interface{}:
		return "array"
	}
	return "string"
}
