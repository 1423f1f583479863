package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLUTReadsBack(t *testing.T) {
	d, err := Parse(ipmsmDeck)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteLUT(&sb, "exported", d.Ref, d.Samples, d.PhiMag))
	assert.Contains(t, sb.String(), ".lut id=-100 iq=100 phid=0.015 phiq=0.08")

	back, err := Parse(sb.String())
	require.NoError(t, err)
	assert.Equal(t, "exported", back.Title)
	assert.Equal(t, d.Samples, back.Samples)
	assert.Equal(t, d.PhiMag, back.PhiMag)
	require.NotNil(t, back.Ref.R1)
	assert.Equal(t, *d.Ref.R1, *back.Ref.R1)
	assert.Equal(t, d.Ref.Tsta, back.Ref.Tsta)
}
