// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of view names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to alias-qualified column
// references for a single table.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName and appends it to the selected column list.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Derive maps viewName to an alias-qualified SQL expression without
// selecting it. Use it for filter and search targets such as a JSONB
// column cast to text. "{alias}" in expr is replaced with the table alias.
func (p *ProjectionMap) Derive(expr, viewName string) *ProjectionMap {
	p.columns[viewName] = strings.ReplaceAll(expr, "{alias}", p.alias)
	return p
}

// From returns the qualified table reference with its alias.
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the mapped column for viewName, or viewName itself if unmapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the selected columns joined for a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}
