package spectrum

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// FITS files are sequences of header+data units (HDUs). Headers are 2880
// byte blocks of 80 byte keyword cards; data follows, padded to the next
// block boundary. All numeric payloads are big-endian.
const (
	fitsBlockSize = 2880
	fitsCardSize  = 80
)

type fitsHeader map[string]string

// decodeFITS scans HDUs in order and decodes the first one carrying data.
// Later HDUs with data are ignored even when they would decode.
func decodeFITS(req Request) ([]Decoded, error) {
	f, err := os.Open(req.AbsolutePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	defer f.Close()

	hdr, data, err := firstDataHDU(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}

	name, _ := hdr.lookupStr("OBJECT", "DESIGNATION", "DESIGNAT")
	naxis, _ := hdr.intVal("NAXIS")
	naxis2, _ := hdr.intVal("NAXIS2")

	var wave, flux []float64
	switch {
	case naxis == 2 && naxis2 == 5:
		// Image with exactly five rows: the first row is the flux series,
		// the wavelength axis lives in the header.
		flux, err = imageRow(hdr, data, 0)
		if err == nil {
			wave, err = reconstructWave(hdr, len(flux))
		}
	case naxis == 2:
		wave, flux, err = tableColumns(hdr, data)
	case naxis == 1:
		flux, err = imageValues(hdr, data)
		if err == nil {
			wave, err = reconstructWave(hdr, len(flux))
		}
	default:
		err = fmt.Errorf("unsupported NAXIS=%d", naxis)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, req.DisplayName, err)
	}
	return []Decoded{{Name: name, Wave: wave, Flux: flux}}, nil
}

// firstDataHDU walks the HDU chain and returns the first header whose data
// segment is non-empty, together with that data.
func firstDataHDU(r io.Reader) (fitsHeader, []byte, error) {
	for {
		hdr, err := readFITSHeader(r)
		if err == io.EOF {
			return nil, nil, fmt.Errorf("no HDU contains data")
		}
		if err != nil {
			return nil, nil, err
		}
		dataLen, heapLen := hdr.dataSize()
		if dataLen == 0 {
			if err := skipPadded(r, dataLen+heapLen); err != nil {
				return nil, nil, err
			}
			continue
		}
		data := make([]byte, dataLen)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, nil, fmt.Errorf("truncated data segment: %v", err)
		}
		return hdr, data, nil
	}
}

// readFITSHeader reads header blocks until the END card. io.EOF at a block
// boundary means there are no further HDUs.
func readFITSHeader(r io.Reader) (fitsHeader, error) {
	hdr := make(fitsHeader)
	block := make([]byte, fitsBlockSize)
	first := true
	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if first && (err == io.EOF || err == io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("truncated header block: %v", err)
		}
		first = false
		for off := 0; off < fitsBlockSize; off += fitsCardSize {
			card := block[off : off+fitsCardSize]
			key := strings.TrimRight(string(card[:8]), " ")
			if key == "END" {
				return hdr, nil
			}
			if key == "" || key == "COMMENT" || key == "HISTORY" {
				continue
			}
			if card[8] != '=' || card[9] != ' ' {
				continue
			}
			hdr[key] = cardValue(string(card[10:]))
		}
	}
}

// cardValue strips the inline comment and surrounding quotes from the value
// part of a card. Doubled quotes inside strings are unescaped.
func cardValue(raw string) string {
	raw = strings.TrimLeft(raw, " ")
	if strings.HasPrefix(raw, "'") {
		var b strings.Builder
		for i := 1; i < len(raw); i++ {
			if raw[i] != '\'' {
				b.WriteByte(raw[i])
				continue
			}
			if i+1 < len(raw) && raw[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			break
		}
		return strings.TrimRight(b.String(), " ")
	}
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

func (h fitsHeader) strVal(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

// lookupStr returns the first present, non-empty value among keys.
func (h fitsHeader) lookupStr(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := h[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (h fitsHeader) intVal(key string) (int, bool) {
	v, ok := h[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		// Integer keywords occasionally carry a float representation.
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

func (h fitsHeader) floatVal(key string) (float64, bool) {
	v, ok := h[key]
	if !ok {
		return 0, false
	}
	// FITS allows Fortran-style exponents.
	v = strings.NewReplacer("D", "E", "d", "e").Replace(strings.TrimSpace(v))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// dataSize returns the unpadded byte length of the data segment and of the
// trailing heap (PCOUNT) area.
func (h fitsHeader) dataSize() (int, int) {
	naxis, ok := h.intVal("NAXIS")
	if !ok || naxis <= 0 {
		return 0, 0
	}
	bitpix, ok := h.intVal("BITPIX")
	if !ok {
		return 0, 0
	}
	size := abs(bitpix) / 8
	for i := 1; i <= naxis; i++ {
		n, ok := h.intVal("NAXIS" + strconv.Itoa(i))
		if !ok {
			return 0, 0
		}
		size *= n
	}
	heap, _ := h.intVal("PCOUNT")
	return size, heap
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// skipPadded consumes n data bytes plus block padding.
func skipPadded(r io.Reader, n int) error {
	if rem := n % fitsBlockSize; rem != 0 {
		n += fitsBlockSize - rem
	}
	if n == 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	if err == io.EOF {
		return nil
	}
	return err
}

// imageValues decodes the whole image payload as a float series, honoring
// BITPIX and the optional BSCALE/BZERO linear transform.
func imageValues(h fitsHeader, data []byte) ([]float64, error) {
	bitpix, ok := h.intVal("BITPIX")
	if !ok {
		return nil, fmt.Errorf("missing BITPIX")
	}
	width := abs(bitpix) / 8
	if width == 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("image payload does not align with BITPIX=%d", bitpix)
	}
	scale, hasScale := h.floatVal("BSCALE")
	zero, hasZero := h.floatVal("BZERO")
	if !hasScale {
		scale = 1
	}
	if !hasZero {
		zero = 0
	}
	out := make([]float64, len(data)/width)
	for i := range out {
		cell := data[i*width : (i+1)*width]
		v, err := pixelValue(bitpix, cell)
		if err != nil {
			return nil, err
		}
		out[i] = zero + scale*v
	}
	return out, nil
}

func pixelValue(bitpix int, cell []byte) (float64, error) {
	switch bitpix {
	case 8:
		return float64(cell[0]), nil
	case 16:
		return float64(int16(binary.BigEndian.Uint16(cell))), nil
	case 32:
		return float64(int32(binary.BigEndian.Uint32(cell))), nil
	case 64:
		return float64(int64(binary.BigEndian.Uint64(cell))), nil
	case -32:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(cell))), nil
	case -64:
		return math.Float64frombits(binary.BigEndian.Uint64(cell)), nil
	default:
		return 0, fmt.Errorf("unsupported BITPIX=%d", bitpix)
	}
}

// imageRow decodes one row of a 2D image payload.
func imageRow(h fitsHeader, data []byte, row int) ([]float64, error) {
	naxis1, ok := h.intVal("NAXIS1")
	if !ok || naxis1 <= 0 {
		return nil, fmt.Errorf("missing NAXIS1")
	}
	all, err := imageValues(h, data)
	if err != nil {
		return nil, err
	}
	if (row+1)*naxis1 > len(all) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return all[row*naxis1 : (row+1)*naxis1], nil
}

var tformPattern = regexp.MustCompile(`^(\d*)([LXBIJKAEDCMPQ])`)

type fitsColumn struct {
	name   string
	repeat int
	code   byte
	offset int
	width  int
}

// tableColumns reads a binary-table HDU and returns the wavelength and flux
// series. The wavelength column is "spectral" when present, else "wave".
func tableColumns(h fitsHeader, data []byte) (wave, flux []float64, err error) {
	cols, rowLen, rows, err := tableLayout(h)
	if err != nil {
		return nil, nil, err
	}
	waveCol := findColumn(cols, "spectral")
	if waveCol == nil {
		waveCol = findColumn(cols, "wave")
	}
	fluxCol := findColumn(cols, "flux")
	if waveCol == nil || fluxCol == nil {
		return nil, nil, fmt.Errorf("table lacks wavelength/flux columns")
	}
	if wave, err = readColumn(data, *waveCol, rowLen, rows); err != nil {
		return nil, nil, err
	}
	if flux, err = readColumn(data, *fluxCol, rowLen, rows); err != nil {
		return nil, nil, err
	}
	return wave, flux, nil
}

func findColumn(cols []fitsColumn, name string) *fitsColumn {
	for i := range cols {
		if strings.EqualFold(cols[i].name, name) {
			return &cols[i]
		}
	}
	return nil
}

// tableLayout derives column byte offsets from the TTYPEn/TFORMn cards.
func tableLayout(h fitsHeader) ([]fitsColumn, int, int, error) {
	nfields, ok := h.intVal("TFIELDS")
	if !ok || nfields <= 0 {
		return nil, 0, 0, fmt.Errorf("missing TFIELDS")
	}
	rowLen, ok := h.intVal("NAXIS1")
	if !ok {
		return nil, 0, 0, fmt.Errorf("missing NAXIS1")
	}
	rows, ok := h.intVal("NAXIS2")
	if !ok {
		return nil, 0, 0, fmt.Errorf("missing NAXIS2")
	}
	cols := make([]fitsColumn, 0, nfields)
	offset := 0
	for i := 1; i <= nfields; i++ {
		form, ok := h.strVal("TFORM" + strconv.Itoa(i))
		if !ok {
			return nil, 0, 0, fmt.Errorf("missing TFORM%d", i)
		}
		m := tformPattern.FindStringSubmatch(strings.TrimSpace(form))
		if m == nil {
			return nil, 0, 0, fmt.Errorf("malformed TFORM%d=%q", i, form)
		}
		repeat := 1
		if m[1] != "" {
			repeat, _ = strconv.Atoi(m[1])
		}
		code := m[2][0]
		width, err := tformWidth(code, repeat)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("TFORM%d: %v", i, err)
		}
		name, _ := h.strVal("TTYPE" + strconv.Itoa(i))
		cols = append(cols, fitsColumn{
			name:   strings.TrimSpace(name),
			repeat: repeat,
			code:   code,
			offset: offset,
			width:  width,
		})
		offset += width
	}
	if offset > rowLen {
		return nil, 0, 0, fmt.Errorf("columns overrun NAXIS1=%d", rowLen)
	}
	return cols, rowLen, rows, nil
}

func tformWidth(code byte, repeat int) (int, error) {
	switch code {
	case 'L', 'B', 'A':
		return repeat, nil
	case 'X':
		return (repeat + 7) / 8, nil
	case 'I':
		return 2 * repeat, nil
	case 'J', 'E':
		return 4 * repeat, nil
	case 'K', 'D', 'P':
		return 8 * repeat, nil
	case 'C':
		return 8 * repeat, nil
	case 'M', 'Q':
		return 16 * repeat, nil
	default:
		return 0, fmt.Errorf("unsupported column code %q", string(code))
	}
}

// readColumn flattens one column across all rows. Vector cells (repeat > 1)
// contribute repeat values per row, so a single-row table with vector cells
// and a multi-row table with scalar cells both yield a plain series.
func readColumn(data []byte, col fitsColumn, rowLen, rows int) ([]float64, error) {
	if rows*rowLen > len(data) {
		return nil, fmt.Errorf("table data shorter than NAXIS1*NAXIS2")
	}
	elemWidth := col.width / col.repeat
	out := make([]float64, 0, rows*col.repeat)
	for r := 0; r < rows; r++ {
		base := r*rowLen + col.offset
		for e := 0; e < col.repeat; e++ {
			cell := data[base+e*elemWidth : base+(e+1)*elemWidth]
			v, err := columnValue(col.code, cell)
			if err != nil {
				return nil, fmt.Errorf("column %q: %v", col.name, err)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func columnValue(code byte, cell []byte) (float64, error) {
	switch code {
	case 'B':
		return float64(cell[0]), nil
	case 'I':
		return float64(int16(binary.BigEndian.Uint16(cell))), nil
	case 'J':
		return float64(int32(binary.BigEndian.Uint32(cell))), nil
	case 'K':
		return float64(int64(binary.BigEndian.Uint64(cell))), nil
	case 'E':
		return float64(math.Float32frombits(binary.BigEndian.Uint32(cell))), nil
	case 'D':
		return math.Float64frombits(binary.BigEndian.Uint64(cell)), nil
	default:
		return 0, fmt.Errorf("non-numeric column code %q", string(code))
	}
}
