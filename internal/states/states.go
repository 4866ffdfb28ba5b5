// Package states maps free-text state names from the enrolment exports onto the
// 36 official state and union territory names.
package states

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Invalid is returned for missing, excluded and unrecognised values.
const Invalid = "INVALID"

// nullTokens are the cell values the export tooling writes for an absent value.
var nullTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "-nan": {}, "null": {}, "none": {},
	"#n/a": {}, "#n/a n/a": {}, "#na": {}, "<na>": {}, "-1.#ind": {}, "1.#ind": {},
	"-1.#qnan": {}, "1.#qnan": {},
}

// excluded holds values seen in the state column that are not states at all
// (city names, numeric placeholders).
var excluded = map[string]struct{}{
	"100000":               {},
	"balanagar":            {},
	"nagpur":               {},
	"jaipur":               {},
	"madanapalle":          {},
	"raja annamalai puram": {},
}

var variants = map[string]string{
	"andaman & nicobar islands":   "Andaman and Nicobar Islands",
	"andaman and nicobar islands": "Andaman and Nicobar Islands",
	"andaman and nicobar":         "Andaman and Nicobar Islands",

	"andhra pradesh":    "Andhra Pradesh",
	"arunachal pradesh": "Arunachal Pradesh",
	"assam":             "Assam",
	"bihar":             "Bihar",
	"chandigarh":        "Chandigarh",

	"chhattisgarh": "Chhattisgarh",
	"chhatisgarh":  "Chhattisgarh",

	// Merged into a single union territory in 2020.
	"dadra & nagar haveli":                         "Dadra and Nagar Haveli and Daman and Diu",
	"dadra and nagar haveli":                       "Dadra and Nagar Haveli and Daman and Diu",
	"dadra and nagar haveli and daman and diu":     "Dadra and Nagar Haveli and Daman and Diu",
	"the dadra and nagar haveli and daman and diu": "Dadra and Nagar Haveli and Daman and Diu",
	"dadra & nagar haveli and daman & diu":         "Dadra and Nagar Haveli and Daman and Diu",
	"daman & diu":                                  "Dadra and Nagar Haveli and Daman and Diu",
	"daman and diu":                                "Dadra and Nagar Haveli and Daman and Diu",

	"delhi":                               "Delhi",
	"nct of delhi":                        "Delhi",
	"national capital territory of delhi": "Delhi",

	"goa":              "Goa",
	"gujarat":          "Gujarat",
	"haryana":          "Haryana",
	"himachal pradesh": "Himachal Pradesh",

	"jammu & kashmir":   "Jammu and Kashmir",
	"jammu and kashmir": "Jammu and Kashmir",

	"jharkhand":      "Jharkhand",
	"karnataka":      "Karnataka",
	"kerala":         "Kerala",
	"ladakh":         "Ladakh",
	"lakshadweep":    "Lakshadweep",
	"madhya pradesh": "Madhya Pradesh",
	"maharashtra":    "Maharashtra",
	"manipur":        "Manipur",
	"meghalaya":      "Meghalaya",
	"mizoram":        "Mizoram",
	"nagaland":       "Nagaland",

	"odisha": "Odisha",
	"orissa": "Odisha",

	"puducherry":  "Puducherry",
	"pondicherry": "Puducherry",

	"punjab":    "Punjab",
	"rajasthan": "Rajasthan",
	"sikkim":    "Sikkim",

	"tamil nadu": "Tamil Nadu",
	"tamilnadu":  "Tamil Nadu",

	"telangana": "Telangana",
	"tripura":   "Tripura",

	"uttar pradesh": "Uttar Pradesh",

	"uttarakhand": "Uttarakhand",
	"uttaranchal": "Uttarakhand",

	"west bengal":  "West Bengal",
	"west  bengal": "West Bengal",
	"west bangal":  "West Bengal",
	"west bengli":  "West Bengal",
	"westbengal":   "West Bengal",
}

var official = func() map[string]struct{} {
	m := make(map[string]struct{}, 36)
	for _, name := range variants {
		m[name] = struct{}{}
	}
	return m
}()

// IsMissing reports whether raw is empty or one of the null markers.
func IsMissing(raw string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// Canonicalize returns the official name for raw, or Invalid. It never invents
// a name: anything outside the mapping table is Invalid.
func Canonicalize(raw string) string {
	if IsMissing(raw) {
		return Invalid
	}
	key := strings.ToLower(strings.TrimSpace(norm.NFKC.String(raw)))
	if _, bad := excluded[key]; bad {
		return Invalid
	}
	if name, ok := variants[key]; ok {
		return name
	}
	return Invalid
}

// IsCanonical reports whether name is an official name or Invalid.
func IsCanonical(name string) bool {
	if name == Invalid {
		return true
	}
	_, ok := official[name]
	return ok
}

// Official returns the official names in lexicographic order.
func Official() []string {
	out := make([]string, 0, len(official))
	for name := range official {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
