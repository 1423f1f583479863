// Package deck reads the line-oriented machine input deck: title line, '*'
// comments, '+' continuations and dot cards with SI-suffixed values.
package deck

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/toy-machine/internal/consts"
	"github.com/edp1096/toy-machine/pkg/loss"
	"github.com/edp1096/toy-machine/pkg/lut"
	"github.com/edp1096/toy-machine/pkg/util"
)

type AnalysisType int

const (
	AnalysisEEC AnalysisType = iota
	AnalysisLoss
)

func (a AnalysisType) String() string {
	switch a {
	case AnalysisEEC:
		return "eec"
	case AnalysisLoss:
		return "loss"
	default:
		return fmt.Sprintf("AnalysisType(%d)", int(a))
	}
}

type MachineParam struct {
	Type    string
	P       int
	Lfe     float64
	Magnets int
}

type WindingParam struct {
	Qs     int
	Zs     int
	Nlayer int
	Ntcoil int
	Npcpp  int
	Pitch  int
	Lewout float64
	Rwind  float64
}

// CondParam keeps the raw card values, the conductor is built on demand.
type CondParam struct {
	Type   string
	Params map[string]float64
}

type OPParam struct {
	Id float64
	Iq float64
	N0 float64
}

type MeshParam struct {
	NCell int
	Area  float64
}

type SpectrumParam struct {
	Region string
	Kind   string // B or J
	Freq   float64
	Values []float64
}

type Deck struct {
	Title    string
	Machine  *MachineParam
	Winding  *WindingParam
	Cond     *CondParam
	Tsta     float64 // stator temperature (degC)
	Trot     float64 // rotor temperature (degC)
	Skin     bool
	OPs      []OPParam
	Ref      lut.ReferenceEEC
	Samples  []lut.Sample
	PhiMag   [][2]float64
	Freqs    []float64
	Mesh     *MeshParam
	Groups   map[string][]int
	Areas    map[int]float64
	Core     map[string]loss.CoreCoeffs
	Cp       float64
	Magnet   loss.MagnetCoeffs
	Spectra  []SpectrumParam
	Analyses []AnalysisType
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func newDeck() *Deck {
	return &Deck{
		Tsta:   consts.TREF,
		Trot:   consts.TREF,
		Ref:    lut.DefaultReference(),
		Groups: make(map[string][]int),
		Areas:  make(map[int]float64),
		Core:   make(map[string]loss.CoreCoeffs),
	}
}

func Parse(input string) (*Deck, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	d := newDeck()

	// Title or comment
	if scanner.Scan() {
		d.Title = strings.TrimPrefix(scanner.Text(), "*")
		d.Title = strings.TrimSpace(d.Title)
	}

	var currentLine string
	flush := func() error {
		if currentLine == "" {
			return nil
		}
		line := currentLine
		currentLine = ""
		if err := parseLine(d, line); err != nil {
			return fmt.Errorf("%s: %v", line, err)
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// inline comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			line = strings.TrimSpace(strings.TrimPrefix(line, "+"))
			if currentLine == "" {
				return nil, fmt.Errorf("continuation without a card: %s", line)
			}
			currentLine += " " + line
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		currentLine = line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return d, nil
}

func parseLine(d *Deck, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")
	fields := strings.Fields(line)

	if !strings.HasPrefix(fields[0], ".") {
		return fmt.Errorf("unknown card %s", fields[0])
	}

	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case ".machine":
		return parseMachine(d, args)
	case ".winding":
		return parseWinding(d, args)
	case ".cond":
		return parseCond(d, args)
	case ".temp":
		p, err := parseParams(args, "tsta", "trot")
		if err != nil {
			return err
		}
		d.Tsta = valueOr(p, "tsta", d.Tsta)
		d.Trot = valueOr(p, "trot", d.Trot)
	case ".skin":
		if len(args) != 1 {
			return fmt.Errorf("skin card needs on or off")
		}
		switch strings.ToLower(args[0]) {
		case "on":
			d.Skin = true
		case "off":
			d.Skin = false
		default:
			return fmt.Errorf("invalid skin switch %s", args[0])
		}
	case ".op":
		p, err := parseParams(args, "id", "iq", "n0")
		if err != nil {
			return err
		}
		d.OPs = append(d.OPs, OPParam{Id: p["id"], Iq: p["iq"], N0: p["n0"]})
	case ".ref":
		return parseRef(d, args)
	case ".lut":
		p, err := parseParams(args, "id", "iq", "phid", "phiq")
		if err != nil {
			return err
		}
		if err := requireParams(p, "id", "iq", "phid", "phiq"); err != nil {
			return err
		}
		d.Samples = append(d.Samples, lut.Sample{Id: p["id"], Iq: p["iq"], Phid: p["phid"], Phiq: p["phiq"]})
	case ".phimag":
		p, err := parseParams(args, "phid", "phiq")
		if err != nil {
			return err
		}
		d.PhiMag = append(d.PhiMag, [2]float64{p["phid"], p["phiq"]})
	case ".freqs":
		return parseFreqs(d, args)
	case ".mesh":
		p, err := parseParams(args, "ncell", "area")
		if err != nil {
			return err
		}
		if err := requireParams(p, "ncell"); err != nil {
			return err
		}
		n, err := toInt("ncell", p["ncell"])
		if err != nil {
			return err
		}
		d.Mesh = &MeshParam{NCell: n, Area: p["area"]}
	case ".group":
		return parseGroup(d, args)
	case ".area":
		if len(args) != 2 {
			return fmt.Errorf("area card needs an element and a value")
		}
		elem, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid element index: %v", err)
		}
		v, err := ParseValue(args[1])
		if err != nil {
			return err
		}
		d.Areas[elem] = v
	case ".core":
		if len(args) < 1 {
			return fmt.Errorf("core card needs a region")
		}
		p, err := parseParams(args[1:], "ch", "ce")
		if err != nil {
			return err
		}
		d.Core[regionName(args[0])] = loss.CoreCoeffs{Ch: p["ch"], Ce: p["ce"]}
	case ".cp":
		if len(args) != 1 {
			return fmt.Errorf("cp card needs one value")
		}
		v, err := ParseValue(args[0])
		if err != nil {
			return err
		}
		d.Cp = v
	case ".magnet":
		p, err := parseParams(args, "sigma", "width")
		if err != nil {
			return err
		}
		d.Magnet = loss.MagnetCoeffs{Sigma: p["sigma"], Width: p["width"]}
	case ".spectrum":
		return parseSpectrum(d, args)
	case ".eec":
		d.Analyses = append(d.Analyses, AnalysisEEC)
	case ".loss":
		d.Analyses = append(d.Analyses, AnalysisLoss)
	default:
		return fmt.Errorf("unsupported card: %s", fields[0])
	}

	return nil
}

func parseMachine(d *Deck, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("machine card needs a type")
	}
	p, err := parseParams(args[1:], "p", "lfe", "magnets")
	if err != nil {
		return err
	}
	if err := requireParams(p, "p", "lfe"); err != nil {
		return err
	}

	m := &MachineParam{Type: args[0], Lfe: p["lfe"]}
	if m.P, err = toInt("p", p["p"]); err != nil {
		return err
	}
	if m.Magnets, err = toInt("magnets", p["magnets"]); err != nil {
		return err
	}
	d.Machine = m
	return nil
}

// DefaultWinding - three phase double layer distributed winding
func DefaultWinding() WindingParam {
	return WindingParam{
		Qs:     3,
		Zs:     36,
		Nlayer: 2,
		Ntcoil: 7,
		Npcpp:  2,
		Pitch:  5,
		Lewout: 0.015,
	}
}

func parseWinding(d *Deck, args []string) error {
	p, err := parseParams(args, "qs", "zs", "nlayer", "ntcoil", "npcpp", "pitch", "lewout", "rwind")
	if err != nil {
		return err
	}

	w := DefaultWinding()
	ints := []struct {
		name string
		dst  *int
	}{
		{"qs", &w.Qs},
		{"zs", &w.Zs},
		{"nlayer", &w.Nlayer},
		{"ntcoil", &w.Ntcoil},
		{"npcpp", &w.Npcpp},
		{"pitch", &w.Pitch},
	}
	for _, f := range ints {
		v, ok := p[f.name]
		if !ok {
			continue
		}
		if *f.dst, err = toInt(f.name, v); err != nil {
			return err
		}
	}
	w.Lewout = valueOr(p, "lewout", w.Lewout)
	w.Rwind = valueOr(p, "rwind", w.Rwind)

	d.Winding = &w
	return nil
}

func parseCond(d *Deck, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("cond card needs a conductor type")
	}
	typ := args[0]
	switch typ {
	case "11", "12", "13":
	default:
		return fmt.Errorf("unsupported conductor type: %s", typ)
	}

	p, err := parseParams(args[1:], "wwire", "hwire", "nwppc", "nwppc_rad", "nwppc_tan",
		"wins_wire", "wins_cond", "kwoh", "rho20", "alpha", "mur")
	if err != nil {
		return err
	}
	d.Cond = &CondParam{Type: typ, Params: p}
	return nil
}

func parseRef(d *Deck, args []string) error {
	p, err := parseParams(args, "r1", "tsta", "trot", "xkrs", "xkes", "xkrr", "xker")
	if err != nil {
		return err
	}

	ref := lut.DefaultReference()
	if r1, ok := p["r1"]; ok {
		ref.R1 = &r1
	}
	ref.Tsta = valueOr(p, "tsta", ref.Tsta)
	ref.Trot = valueOr(p, "trot", ref.Trot)
	ref.XkrSkinS = valueOr(p, "xkrs", ref.XkrSkinS)
	ref.XkeSkinS = valueOr(p, "xkes", ref.XkeSkinS)
	ref.XkrSkinR = valueOr(p, "xkrr", ref.XkrSkinR)
	ref.XkeSkinR = valueOr(p, "xker", ref.XkeSkinR)
	d.Ref = ref
	return nil
}

// .freqs lin <start> <stop> <n> | .freqs list f1 f2 ...
func parseFreqs(d *Deck, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("insufficient freqs parameters")
	}

	switch strings.ToLower(args[0]) {
	case "lin":
		if len(args) != 4 {
			return fmt.Errorf("lin sweep needs start, stop and points")
		}
		start, err := ParseValue(args[1])
		if err != nil {
			return fmt.Errorf("invalid start: %v", err)
		}
		stop, err := ParseValue(args[2])
		if err != nil {
			return fmt.Errorf("invalid stop: %v", err)
		}
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid points number: %s", args[3])
		}
		d.Freqs = util.Linspace(start, stop, n)
	case "list":
		freqs := make([]float64, 0, len(args)-1)
		for _, a := range args[1:] {
			f, err := ParseValue(a)
			if err != nil {
				return err
			}
			freqs = append(freqs, f)
		}
		d.Freqs = freqs
	default:
		return fmt.Errorf("invalid sweep type: %s", args[0])
	}

	if err := util.CheckAscending(d.Freqs); err != nil {
		return fmt.Errorf("frequency axis: %v", err)
	}
	return nil
}

// .group <region> <idx|a-b> ...
func parseGroup(d *Deck, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("group card needs a region and elements")
	}

	region := regionName(args[0])
	for _, a := range args[1:] {
		lo, hi := a, a
		if i := strings.Index(a, "-"); i > 0 {
			lo, hi = a[:i], a[i+1:]
		}
		from, err := strconv.Atoi(lo)
		if err != nil {
			return fmt.Errorf("invalid element %s", a)
		}
		to, err := strconv.Atoi(hi)
		if err != nil {
			return fmt.Errorf("invalid element %s", a)
		}
		if from < 0 || to < from {
			return fmt.Errorf("invalid element range %s", a)
		}
		for e := from; e <= to; e++ {
			d.Groups[region] = append(d.Groups[region], e)
		}
	}
	return nil
}

// .spectrum <region> <B|J> <freq> v1 v2 ...
func parseSpectrum(d *Deck, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("spectrum card needs region, kind, frequency and values")
	}

	kind := strings.ToUpper(args[1])
	if kind != "B" && kind != "J" {
		return fmt.Errorf("invalid spectrum kind: %s", args[1])
	}
	f, err := ParseValue(args[2])
	if err != nil {
		return fmt.Errorf("invalid frequency: %v", err)
	}

	values := make([]float64, len(args)-3)
	for k, a := range args[3:] {
		if values[k], err = ParseValue(a); err != nil {
			return err
		}
	}

	d.Spectra = append(d.Spectra, SpectrumParam{
		Region: regionName(args[0]),
		Kind:   kind,
		Freq:   f,
		Values: values,
	})
	return nil
}

// parseParams reads name=value pairs, rejecting names outside allowed.
func parseParams(fields []string, allowed ...string) (map[string]float64, error) {
	params := make(map[string]float64)
	for _, pair := range fields {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid parameter %s, need name=value", pair)
		}

		name := strings.ToLower(strings.TrimSpace(parts[0]))
		known := false
		for _, a := range allowed {
			if a == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown parameter %s", name)
		}

		value, err := ParseValue(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid parameter value %s: %v", pair, err)
		}
		params[name] = value
	}
	return params, nil
}

func requireParams(params map[string]float64, names ...string) error {
	for _, n := range names {
		if _, ok := params[n]; !ok {
			return fmt.Errorf("missing parameter %s", n)
		}
	}
	return nil
}

func valueOr(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

func toInt(name string, v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parameter %s must be an integer, got %g", name, v)
	}
	return int(v), nil
}

// regionName - deck tokens use '_' for spaces
func regionName(tok string) string {
	return strings.ReplaceAll(tok, "_", " ")
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if len(matches) > 2 && matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}
