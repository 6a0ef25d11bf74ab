package oxcel

import (
	"fmt"
	"strings"
)

// PivotAggregation is the function applied to a pivot data field.
type PivotAggregation string

const (
	PivotSum     PivotAggregation = "sum"
	PivotCount   PivotAggregation = "count"
	PivotAverage PivotAggregation = "average"
	PivotMax     PivotAggregation = "max"
	PivotMin     PivotAggregation = "min"
	PivotProduct PivotAggregation = "product"
	PivotStdDev  PivotAggregation = "stdDev"
	PivotVar     PivotAggregation = "var"
)

var validPivotAggregations = map[PivotAggregation]bool{
	PivotSum: true, PivotCount: true, PivotAverage: true, PivotMax: true,
	PivotMin: true, PivotProduct: true, PivotStdDev: true, PivotVar: true,
}

// CacheField is one source column captured in the pivot cache.
type CacheField struct {
	Name        string
	NumFmtID    int
	SharedItems []string // distinct source values, when captured
}

// PivotCache describes where a pivot table's data comes from. Only
// worksheet-range sources are materialized; external sources are carried
// through as-is.
type PivotCache struct {
	SourceSheet string
	SourceRange Range
	External    bool
	ExternalRef string
	Fields      []CacheField

	// Stale records that the cached data needs an Excel-side refresh. The
	// engine never computes aggregates.
	Stale bool
}

// PivotDataField is one value column of the pivot.
type PivotDataField struct {
	DisplayName string
	FieldIndex  int // into the cache field list
	Aggregation PivotAggregation
	BaseField   int // for calculated displays; -1 when unused
	BaseItem    int // for calculated displays; -1 when unused
}

// PivotTable is the pivot definition. Aggregation happens in Excel, not
// here.
type PivotTable struct {
	Name       string
	TargetCell CellRef
	Cache      PivotCache
	RowFields  []int
	ColFields  []int
	DataFields []PivotDataField
}

// AddPivotTable creates a pivot over a worksheet-range cache. Field indices
// must address cache fields, and the source range must exist on the named
// source sheet.
func (s *Sheet) AddPivotTable(name, targetCell string, cache PivotCache, rowFields, colFields []int, dataFields []PivotDataField) error {
	if name == "" {
		return fmt.Errorf("%w: empty pivot table name", ErrInvalidArgument)
	}
	target, err := ParseCellRef(targetCell)
	if err != nil {
		return err
	}
	if !cache.External {
		src, err := s.wb.Sheet(cache.SourceSheet)
		if err != nil {
			return fmt.Errorf("pivot %q source: %w", name, err)
		}
		if !cache.SourceRange.Start.Valid() || !cache.SourceRange.End.Valid() {
			return fmt.Errorf("%w: pivot %q source range %s", ErrInvalidArgument, name, cache.SourceRange)
		}
		if len(cache.Fields) == 0 {
			cache.Fields = cacheFieldsFromRange(src, cache.SourceRange)
		}
	}
	n := len(cache.Fields)
	for _, idx := range rowFields {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: pivot row field index %d outside %d cache fields", ErrInvalidArgument, idx, n)
		}
	}
	for _, idx := range colFields {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: pivot column field index %d outside %d cache fields", ErrInvalidArgument, idx, n)
		}
	}
	for _, df := range dataFields {
		if df.FieldIndex < 0 || df.FieldIndex >= n {
			return fmt.Errorf("%w: pivot data field index %d outside %d cache fields", ErrInvalidArgument, df.FieldIndex, n)
		}
		if !validPivotAggregations[df.Aggregation] {
			return fmt.Errorf("%w: pivot aggregation %q", ErrInvalidArgument, df.Aggregation)
		}
	}
	for _, sh := range s.wb.sheets {
		for _, p := range sh.pivots {
			if strings.EqualFold(p.Name, name) {
				return fmt.Errorf("%w: duplicate pivot table name %q", ErrInvalidArgument, name)
			}
		}
	}
	s.pivots = append(s.pivots, &PivotTable{
		Name:       name,
		TargetCell: target,
		Cache:      cache,
		RowFields:  append([]int(nil), rowFields...),
		ColFields:  append([]int(nil), colFields...),
		DataFields: append([]PivotDataField(nil), dataFields...),
	})
	return nil
}

// cacheFieldsFromRange derives field names from the source range's header
// row, falling back to positional names for blank headers.
func cacheFieldsFromRange(src *Sheet, r Range) []CacheField {
	fields := make([]CacheField, 0, r.Width())
	for col := r.Start.Col; col <= r.End.Col; col++ {
		name := ""
		if c, ok := src.cells[CellRef{Col: col, Row: r.Start.Row}]; ok && c.Type == CellString {
			name = c.Str
		}
		if name == "" {
			name = "Field" + itoa(col-r.Start.Col+1)
		}
		fields = append(fields, CacheField{Name: name})
	}
	return fields
}

// PivotTable returns the named pivot on this sheet.
func (s *Sheet) PivotTable(name string) (PivotTable, error) {
	for _, p := range s.pivots {
		if strings.EqualFold(p.Name, name) {
			return *p, nil
		}
	}
	return PivotTable{}, fmt.Errorf("%w: pivot table %q on sheet %q", ErrNotFound, name, s.name)
}

// PivotTables returns the sheet's pivots in insertion order.
func (s *Sheet) PivotTables() []PivotTable {
	out := make([]PivotTable, len(s.pivots))
	for i, p := range s.pivots {
		out[i] = *p
	}
	return out
}

// RemovePivotTable deletes the named pivot from this sheet.
func (s *Sheet) RemovePivotTable(name string) error {
	for i, p := range s.pivots {
		if strings.EqualFold(p.Name, name) {
			s.pivots = append(s.pivots[:i], s.pivots[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: pivot table %q on sheet %q", ErrNotFound, name, s.name)
}

// RefreshPivotTable marks the pivot's cache stale so Excel recomputes it on
// open. No aggregation happens here.
func (s *Sheet) RefreshPivotTable(name string) error {
	for _, p := range s.pivots {
		if strings.EqualFold(p.Name, name) {
			p.Cache.Stale = true
			return nil
		}
	}
	return fmt.Errorf("%w: pivot table %q on sheet %q", ErrNotFound, name, s.name)
}
