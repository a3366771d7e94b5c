package spectrum

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// VOTable documents nest TABLE elements under RESOURCE elements. Only the
// structures needed for spectrum extraction are mapped.
type votDocument struct {
	Resources []votResource `xml:"RESOURCE"`
}

type votResource struct {
	Params    []votParam    `xml:"PARAM"`
	Tables    []votTable    `xml:"TABLE"`
	Resources []votResource `xml:"RESOURCE"`
}

type votTable struct {
	Fields []votField `xml:"FIELD"`
	Params []votParam `xml:"PARAM"`
	Rows   []votRow   `xml:"DATA>TABLEDATA>TR"`
}

type votField struct {
	ID   string `xml:"ID,attr"`
	Name string `xml:"name,attr"`
}

type votParam struct {
	ID    string `xml:"ID,attr"`
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type votRow struct {
	Cells []string `xml:"TD"`
}

const targetNameField = "ssa_targname"

// decodeVOTable reads the first table of a VOTable document. The wavelength
// column is "spectral" and the flux column "flux"; the optional target name
// comes from an ssa_targname param or field.
func decodeVOTable(req Request) ([]Decoded, error) {
	doc, err := parseVOTableFile(req.AbsolutePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	table := firstTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: %s: document has no table", ErrDecode, req.DisplayName)
	}
	wave, err := columnSeries(table, "spectral")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	flux, err := columnSeries(table, "flux")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	if len(wave) != len(flux) {
		return nil, fmt.Errorf("%w: %s: spectral/flux length mismatch (%d vs %d)",
			ErrDecode, req.DisplayName, len(wave), len(flux))
	}
	return []Decoded{{
		Name: targetName(doc, table),
		Wave: wave,
		Flux: flux,
	}}, nil
}

// parseVOTableFile parses leniently: non-fatal schema deviations common in
// published VOTables must not abort the decode.
func parseVOTableFile(path string) (*votDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := xml.NewDecoder(f)
	dec.Strict = false
	var doc votDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed votable: %v", err)
	}
	return &doc, nil
}

func firstTable(doc *votDocument) *votTable {
	var walk func(rs []votResource) *votTable
	walk = func(rs []votResource) *votTable {
		for i := range rs {
			if len(rs[i].Tables) > 0 {
				return &rs[i].Tables[0]
			}
			if t := walk(rs[i].Resources); t != nil {
				return t
			}
		}
		return nil
	}
	return walk(doc.Resources)
}

// fieldIndex finds a column by field ID or name, case-insensitively.
func fieldIndex(table *votTable, name string) int {
	for i, f := range table.Fields {
		if strings.EqualFold(f.ID, name) || strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// columnSeries flattens one column over all rows. Vector cells hold their
// values whitespace-separated inside a single TD.
func columnSeries(table *votTable, name string) ([]float64, error) {
	idx := fieldIndex(table, name)
	if idx < 0 {
		return nil, fmt.Errorf("table lacks %q field", name)
	}
	var out []float64
	for r, row := range table.Rows {
		if idx >= len(row.Cells) {
			return nil, fmt.Errorf("row %d lacks %q cell", r, name)
		}
		vals, err := cellValues(row.Cells[idx])
		if err != nil {
			return nil, fmt.Errorf("row %d, field %q: %v", r, name, err)
		}
		out = append(out, vals...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("field %q holds no data", name)
	}
	return out, nil
}

func cellValues(cell string) ([]float64, error) {
	fields := strings.Fields(cell)
	out := make([]float64, 0, len(fields))
	for _, fv := range fields {
		v, err := strconv.ParseFloat(fv, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", fv)
		}
		out = append(out, v)
	}
	return out, nil
}

// targetName extracts the ssa_targname value. Params are checked before
// fields; absence is not an error. Values are forced to clean text since
// some archives emit binary-padded names.
func targetName(doc *votDocument, table *votTable) string {
	for _, p := range table.Params {
		if strings.EqualFold(p.ID, targetNameField) || strings.EqualFold(p.Name, targetNameField) {
			return cleanName(p.Value)
		}
	}
	var fromResources func(rs []votResource) string
	fromResources = func(rs []votResource) string {
		for i := range rs {
			for _, p := range rs[i].Params {
				if strings.EqualFold(p.ID, targetNameField) || strings.EqualFold(p.Name, targetNameField) {
					return cleanName(p.Value)
				}
			}
			if v := fromResources(rs[i].Resources); v != "" {
				return v
			}
		}
		return ""
	}
	if v := fromResources(doc.Resources); v != "" {
		return v
	}
	if idx := fieldIndex(table, targetNameField); idx >= 0 && len(table.Rows) > 0 {
		row := table.Rows[0]
		if idx < len(row.Cells) {
			return cleanName(row.Cells[idx])
		}
	}
	return ""
}

func cleanName(v string) string {
	v = strings.ToValidUTF8(v, "")
	v = strings.Trim(v, "\x00")
	return strings.TrimSpace(v)
}
