package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const votWithName = `<?xml version="1.0"?>
<VOTABLE version="1.3" xmlns="http://www.ivoa.net/xml/VOTable/v1.3">
 <RESOURCE>
  <TABLE>
   <PARAM ID="ssa_targname" name="ssa_targname" datatype="char" arraysize="*" value="HD 12345"/>
   <FIELD ID="spectral" name="spectral" datatype="double" unit="Angstrom"/>
   <FIELD ID="flux" name="flux" datatype="double"/>
   <DATA>
    <TABLEDATA>
     <TR><TD>4000.0</TD><TD>1.5</TD></TR>
     <TR><TD>4002.0</TD><TD>1.6</TD></TR>
     <TR><TD>4004.0</TD><TD>1.7</TD></TR>
    </TABLEDATA>
   </DATA>
  </TABLE>
 </RESOURCE>
</VOTABLE>`

const votWithoutName = `<?xml version="1.0"?>
<VOTABLE>
 <RESOURCE>
  <TABLE>
   <FIELD name="spectral" datatype="double"/>
   <FIELD name="flux" datatype="double"/>
   <DATA>
    <TABLEDATA>
     <TR><TD>5000</TD><TD>2</TD></TR>
    </TABLEDATA>
   </DATA>
  </TABLE>
 </RESOURCE>
</VOTABLE>`

const votVectorCells = `<?xml version="1.0"?>
<VOTABLE>
 <RESOURCE>
  <TABLE>
   <FIELD name="spectral" datatype="double" arraysize="3"/>
   <FIELD name="flux" datatype="double" arraysize="3"/>
   <DATA>
    <TABLEDATA>
     <TR><TD>1 2 3</TD><TD>10 20 30</TD></TR>
    </TABLEDATA>
   </DATA>
  </TABLE>
 </RESOURCE>
</VOTABLE>`

func TestDecodeVOTable(t *testing.T) {
	req := writeSpectrumFile(t, "spec.vot", []byte(votWithName))
	decoded, err := decodeVOTable(req)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "HD 12345", decoded[0].Name)
	assert.Equal(t, []float64{4000, 4002, 4004}, decoded[0].Wave)
	assert.Equal(t, []float64{1.5, 1.6, 1.7}, decoded[0].Flux)
}

func TestDecodeVOTableMissingNameIsNotAnError(t *testing.T) {
	req := writeSpectrumFile(t, "anon.vot", []byte(votWithoutName))
	decoded, err := decodeVOTable(req)
	require.NoError(t, err)
	assert.Empty(t, decoded[0].Name)
	assert.Equal(t, []float64{5000}, decoded[0].Wave)
}

func TestDecodeVOTableVectorCells(t *testing.T) {
	req := writeSpectrumFile(t, "vector.vot", []byte(votVectorCells))
	decoded, err := decodeVOTable(req)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, decoded[0].Wave)
	assert.Equal(t, []float64{10, 20, 30}, decoded[0].Flux)
}

func TestDecodeVOTableMissingColumn(t *testing.T) {
	doc := `<VOTABLE><RESOURCE><TABLE>
 <FIELD name="flux" datatype="double"/>
 <DATA><TABLEDATA><TR><TD>1</TD></TR></TABLEDATA></DATA>
</TABLE></RESOURCE></VOTABLE>`
	req := writeSpectrumFile(t, "noflux.vot", []byte(doc))
	_, err := decodeVOTable(req)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeVOTableMalformedDocument(t *testing.T) {
	req := writeSpectrumFile(t, "broken.vot", []byte("<VOTABLE><RESOURCE>"))
	_, err := decodeVOTable(req)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeVOTableNoTable(t *testing.T) {
	req := writeSpectrumFile(t, "notable.vot", []byte("<VOTABLE><RESOURCE></RESOURCE></VOTABLE>"))
	_, err := decodeVOTable(req)
	assert.ErrorIs(t, err, ErrDecode)
}
