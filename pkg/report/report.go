// Package report prints analysis results and plots loss spectra.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/util"
)

func getKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrintEEC writes one line per identified operating point.
func PrintEEC(w io.Writer, results map[string][]float64) {
	ids := results["ID"]
	fmt.Fprintf(w, "\nEEC Identification Results (%d operating points):\n", len(ids))
	fmt.Fprintln(w, "Id          Iq          N0            R1            Ld            Lq            Phid          Phiq")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------------------")

	columns := []struct {
		key  string
		unit string
	}{
		{"R1", "Ohm"},
		{"LD", "H"},
		{"LQ", "H"},
		{"PHID", "Wb"},
		{"PHIQ", "Wb"},
	}

	for i := range ids {
		fmt.Fprintf(w, "%-10s  %-10s  %-12s",
			util.FormatValueFactor(ids[i], "A"),
			util.FormatValueFactor(results["IQ"][i], "A"),
			humanize.FormatFloat("#,###.", results["N0"][i])+" rpm")
		for _, c := range columns {
			if values, ok := results[c.key]; ok && i < len(values) {
				fmt.Fprintf(w, "  %-12s", util.FormatValueFactor(values[i], c.unit))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintLoss writes the per-bin power table, the totals and the fitted
// frequency coefficients.
func PrintLoss(w io.Writer, out *loss.Output) {
	fmt.Fprintf(w, "\nLoss Results (run %s):\n", out.ID)

	if len(out.Freqs) > 0 && len(out.Power) > 0 {
		names := getKeys(out.Power)

		fmt.Fprintf(w, "%-13s", "Frequency")
		for _, name := range names {
			fmt.Fprintf(w, "  %-12s", name)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("-", 13+14*len(names)))

		for i, f := range out.Freqs {
			fmt.Fprintf(w, "%-13s", util.FormatFrequency(f))
			for _, name := range names {
				fmt.Fprintf(w, "  %-12s", util.FormatPower(out.Power[name][i]))
			}
			fmt.Fprintln(w)
		}

		fmt.Fprintln(w, "\nTotals:")
		for _, name := range names {
			fmt.Fprintf(w, "%-14s = %s\n", name, util.FormatPower(floats.Sum(out.Power[name])))
		}
		fmt.Fprintf(w, "%-14s = %s\n", "all", util.FormatPower(out.TotalPower("")))
	} else if out.LossDensity == nil {
		fmt.Fprintln(w, "mesh solution disabled, no per-element densities")
	}

	if len(out.CoeffDict) == 0 {
		return
	}
	regions := make([]string, 0, len(out.CoeffDict))
	for name := range out.CoeffDict {
		regions = append(regions, name)
	}
	sort.Strings(regions)

	fmt.Fprintln(w, "\nLoss coefficients (P = A f^a + B f^b + C f^c):")
	for _, name := range regions {
		c := out.CoeffDict[name]
		fmt.Fprintf(w, "%-14s A=%s a=%g  B=%s b=%g  C=%s c=%g\n", name,
			util.FormatCoeff(c.A), c.Ea,
			util.FormatCoeff(c.B), c.Eb,
			util.FormatCoeff(c.C), c.Ec)
	}
}
