package soil

// Canonical property names and depth bands. The primary provider defines the
// canonical vocabulary; the backup is renamed and rescaled into it.
const (
	PropPH       = "phh2o"    // pH * 10
	PropClay     = "clay"     // g/kg
	PropSand     = "sand"     // g/kg
	PropSilt     = "silt"     // g/kg
	PropSOC      = "soc"      // organic carbon, dg/kg
	PropNitrogen = "nitrogen" // cg/kg
	PropCEC      = "cec"      // cation exchange capacity, mmol(c)/kg
	PropBulkDens = "bdod"     // bulk density, cg/cm3
)

// Properties lists the canonical properties in their fixed order. Every
// profile carries all of them regardless of which provider answered.
var Properties = []string{
	PropPH, PropClay, PropSand, PropSilt,
	PropSOC, PropNitrogen, PropCEC, PropBulkDens,
}

// DepthLabels are the two topsoil bands every property is reported for.
var DepthLabels = []string{"0-5cm", "5-15cm"}

// Defaults fill properties a provider omits, in canonical units.
var Defaults = map[string]float64{
	PropPH:       65,
	PropClay:     250,
	PropSand:     400,
	PropSilt:     350,
	PropSOC:      150,
	PropNitrogen: 130,
	PropCEC:      180,
	PropBulkDens: 140,
}

// DepthValue is one depth band's mean value for a property.
type DepthValue struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
}

// Property is a named soil property with per-depth mean values.
type Property struct {
	Name   string       `json:"name"`
	Depths []DepthValue `json:"depths"`
}

// Profile is the canonical soil profile: every property in Properties, in
// order, each with a value for every band in DepthLabels.
type Profile struct {
	Properties []Property `json:"properties"`
}

// Lookup returns the mean for a property and depth label, or (0, false).
func (p Profile) Lookup(name, label string) (float64, bool) {
	for _, prop := range p.Properties {
		if prop.Name != name {
			continue
		}
		for _, d := range prop.Depths {
			if d.Label == label {
				return d.Mean, true
			}
		}
	}
	return 0, false
}

// DefaultProfile builds a profile made entirely of provider defaults. Used to
// backfill whatever a source omits so the canonical shape always holds.
func DefaultProfile() Profile {
	var prof Profile
	for _, name := range Properties {
		prop := Property{Name: name}
		for _, label := range DepthLabels {
			prop.Depths = append(prop.Depths, DepthValue{Label: label, Mean: Defaults[name]})
		}
		prof.Properties = append(prof.Properties, prop)
	}
	return prof
}

// Merge overlays known values onto a default profile, keeping canonical
// ordering and filling gaps with defaults.
func Merge(values map[string]map[string]float64) Profile {
	prof := DefaultProfile()
	for i, prop := range prof.Properties {
		byDepth, ok := values[prop.Name]
		if !ok {
			continue
		}
		for j, d := range prop.Depths {
			if mean, ok := byDepth[d.Label]; ok {
				prof.Properties[i].Depths[j].Mean = mean
			}
		}
	}
	return prof
}
