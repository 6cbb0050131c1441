package catalog

// Region names form a fixed closed set; anything else falls back to europe.
const (
	RegionEurope = "europe"
	RegionUSA    = "usa"
	RegionLatam  = "latam"
)

// Region groups the country spellings used by the tour API (CountryNames)
// with the ISO codes used by catalog records (CountryCodes).
type Region struct {
	Key          string
	CountryNames []string
	CountryCodes []string
}

var regions = map[string]Region{
	RegionEurope: {
		Key: RegionEurope,
		CountryNames: []string{
			"Germany", "France", "Spain", "Italy", "Netherlands",
			"Belgium", "Portugal", "United Kingdom", "Ireland",
			"Denmark", "Sweden", "Norway", "Finland", "Poland",
			"Austria", "Switzerland", "Czech Republic", "Czechia", "Hungary",
			"Croatia", "Serbia", "Greece", "Romania", "Bulgaria",
			"Slovakia", "Slovenia", "Estonia", "Latvia", "Lithuania",
			"Luxembourg", "Iceland", "Turkey", "Ukraine", "Russia",
		},
		CountryCodes: []string{
			"DE", "FR", "ES", "IT", "NL", "BE", "PT", "GB", "UK", "IE",
			"DK", "SE", "NO", "FI", "PL", "AT", "CH", "CZ", "HU",
			"HR", "RS", "GR", "RO", "BG", "SK", "SI", "EE", "LV", "LT",
			"LU", "IS", "TR", "UA", "RU",
		},
	},
	RegionUSA: {
		Key:          RegionUSA,
		CountryNames: []string{"United States", "USA", "US"},
		CountryCodes: []string{"US", "USA"},
	},
	RegionLatam: {
		Key: RegionLatam,
		CountryNames: []string{
			"Mexico", "Brazil", "Argentina", "Chile", "Colombia",
			"Peru", "Ecuador", "Venezuela", "Uruguay", "Paraguay",
			"Bolivia", "Costa Rica", "Panama", "Guatemala", "Honduras",
			"El Salvador", "Nicaragua", "Cuba", "Dominican Republic", "Puerto Rico",
		},
		CountryCodes: []string{
			"MX", "BR", "AR", "CL", "CO", "PE", "EC", "VE", "UY", "PY",
			"BO", "CR", "PA", "GT", "HN", "SV", "NI", "CU", "DO", "PR",
		},
	},
}

// LookupRegion resolves a region key, falling back to europe for anything
// unrecognized (including the empty string).
func LookupRegion(key string) Region {
	if r, ok := regions[key]; ok {
		return r
	}
	return regions[RegionEurope]
}

// RegionKeys lists all region keys in a stable order.
func RegionKeys() []string {
	return []string{RegionEurope, RegionUSA, RegionLatam}
}

// HasCountryName reports whether the tour-API country spelling belongs to the region.
func (r Region) HasCountryName(country string) bool {
	for _, name := range r.CountryNames {
		if name == country {
			return true
		}
	}
	return false
}

// HasCountryCode reports whether the ISO code belongs to the region.
func (r Region) HasCountryCode(code string) bool {
	for _, c := range r.CountryCodes {
		if c == code {
			return true
		}
	}
	return false
}

// FilterRegion returns the festivals whose country code belongs to the region.
func FilterRegion(festivals []Festival, r Region) []Festival {
	out := make([]Festival, 0, len(festivals))
	for _, f := range festivals {
		if r.HasCountryCode(f.Country) {
			out = append(out, f)
		}
	}
	return out
}
