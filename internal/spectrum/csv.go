package spectrum

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// A first field starting with a letter marks a file whose rows carry their
// own display names.
var namedRowPattern = regexp.MustCompile(`^[a-zA-Z]`)

// decodeDelimited reads a text file holding one flux series per row. The
// delimiter and the presence of a leading name column are sniffed from the
// first line. Rows without a name column get generated "<file>: #<i>"
// labels. When metaWave is non-nil every row is plotted against it,
// otherwise against the row's own sample index.
func decodeDelimited(req Request, metaWave []float64) ([]Decoded, error) {
	f, err := os.Open(req.AbsolutePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	defer f.Close()

	firstLine, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	if strings.TrimSpace(firstLine) == "" {
		return nil, fmt.Errorf("%w: %s: file is empty", ErrDecode, req.DisplayName)
	}
	delimiter := sniffDelimiter(firstLine)
	named := namedRowPattern.MatchString(firstField(firstLine, delimiter))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var out []Decoded
	counter := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
		}
		var name string
		fields := record
		if named {
			name = record[0]
			fields = record[1:]
		} else {
			name = fmt.Sprintf("%s: #%d", req.DisplayName, counter)
			counter++
		}
		flux, err := parseFlux(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %q: %v", ErrDecode, req.DisplayName, name, err)
		}
		if metaWave != nil && len(metaWave) != len(flux) {
			return nil, fmt.Errorf("%w: %s: meta wave length %d does not match flux length %d",
				ErrDecode, req.DisplayName, len(metaWave), len(flux))
		}
		out = append(out, Decoded{Name: name, Wave: metaWave, Flux: flux})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows", ErrDecode, req.DisplayName)
	}
	return out, nil
}

// sniffDelimiter picks space when the first line holds strictly more spaces
// than commas, comma otherwise.
func sniffDelimiter(line string) rune {
	if strings.Count(line, " ") > strings.Count(line, ",") {
		return ' '
	}
	return ','
}

func firstField(line string, delimiter rune) string {
	field, _, _ := strings.Cut(line, string(delimiter))
	return field
}

// parseFlux converts row fields to floats. Empty fields, produced by runs
// of spaces in space-delimited files, are skipped.
func parseFlux(fields []string) ([]float64, error) {
	flux := make([]float64, 0, len(fields))
	for _, raw := range fields {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bad flux value %q", raw)
		}
		flux = append(flux, v)
	}
	if len(flux) == 0 {
		return nil, fmt.Errorf("row holds no flux values")
	}
	return flux, nil
}
