package deck

import (
	"fmt"
	"io"
	"strconv"

	"github.com/edp1096/toy-machine/pkg/lut"
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteLUT writes a reference table as a deck fragment that Parse reads back.
func WriteLUT(w io.Writer, title string, ref lut.ReferenceEEC, samples []lut.Sample, phiMag [][2]float64) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	line := fmt.Sprintf(".ref tsta=%s trot=%s xkrs=%s xkes=%s xkrr=%s xker=%s",
		formatValue(ref.Tsta), formatValue(ref.Trot),
		formatValue(ref.XkrSkinS), formatValue(ref.XkeSkinS),
		formatValue(ref.XkrSkinR), formatValue(ref.XkeSkinR))
	if ref.R1 != nil {
		line += " r1=" + formatValue(*ref.R1)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, s := range samples {
		_, err := fmt.Fprintf(w, ".lut id=%s iq=%s phid=%s phiq=%s\n",
			formatValue(s.Id), formatValue(s.Iq), formatValue(s.Phid), formatValue(s.Phiq))
		if err != nil {
			return err
		}
	}
	for _, pm := range phiMag {
		if _, err := fmt.Fprintf(w, ".phimag phid=%s phiq=%s\n", formatValue(pm[0]), formatValue(pm[1])); err != nil {
			return err
		}
	}
	return nil
}
