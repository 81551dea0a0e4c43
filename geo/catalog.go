package geo

// Area is a selectable play area with a display name and bounding box.
type Area struct {
	Name string
	BBox BBox
}

const DefaultRegion = "WORLD"

// Regions players can pick from in the lobby.
var Regions = map[string]Area{
	"WORLD":     {Name: "World", BBox: BBox{-55, -170, 70, 170}},
	"EUROPE":    {Name: "Europe", BBox: BBox{34, -11, 71, 40}},
	"N_AMERICA": {Name: "North America", BBox: BBox{15, -168, 72, -52}},
	"S_AMERICA": {Name: "South America", BBox: BBox{-56, -82, 13, -34}},
	"ASIA":      {Name: "Asia", BBox: BBox{1, 25, 78, 180}},
	"AFRICA":    {Name: "Africa", BBox: BBox{-35, -20, 38, 55}},
	"OCEANIA":   {Name: "Oceania", BBox: BBox{-47, 110, -5, 180}},
	"RU":        {Name: "Russia", BBox: BBox{41, 19, 82, 180}},
}

// Countries override the region selection when set.
var Countries = map[string]Area{
	"RU": {Name: "Russia", BBox: BBox{41, 19, 82, 180}},
	"KZ": {Name: "Kazakhstan", BBox: BBox{40.5, 46.5, 55.5, 87.5}},
	"TR": {Name: "Turkey", BBox: BBox{35.8, 25.6, 42.2, 44.8}},
	"DE": {Name: "Germany", BBox: BBox{47.2, 5.9, 55.1, 15.1}},
	"FR": {Name: "France", BBox: BBox{41.0, -5.2, 51.3, 9.6}},
	"GB": {Name: "United Kingdom", BBox: BBox{49.8, -8.6, 60.9, 1.8}},
	"US": {Name: "USA (contiguous)", BBox: BBox{24.5, -124.8, 49.4, -66.9}},
	"JP": {Name: "Japan", BBox: BBox{30.0, 129.0, 45.8, 146.0}},
}

// ResolveBBox returns the bounding box for a country/region selection.
// A valid country wins over the region; anything unknown falls back to the
// world box.
func ResolveBBox(region, country string) BBox {
	if country != "" {
		if c, ok := Countries[country]; ok {
			return c.BBox
		}
	}
	if r, ok := Regions[region]; ok {
		return r.BBox
	}
	return Regions[DefaultRegion].BBox
}

// RegionNames returns the code -> display name catalog for snapshots.
func RegionNames() map[string]string {
	names := make(map[string]string, len(Regions))
	for code, area := range Regions {
		names[code] = area.Name
	}
	return names
}

// CountryNames returns the code -> display name catalog for snapshots.
func CountryNames() map[string]string {
	names := make(map[string]string, len(Countries))
	for code, area := range Countries {
		names[code] = area.Name
	}
	return names
}
