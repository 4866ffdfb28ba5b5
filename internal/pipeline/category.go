package pipeline

// Category is one of the three enrolment exports. Each is read from its own
// directory and cleaned independently; schemas are never merged.
type Category struct {
	// Name is the label used in reports, e.g. BIOMETRIC.
	Name string
	// Prefix names output files and the SQLite table.
	Prefix string
	// InputDir is the directory name under the input root.
	InputDir string
	// Counters are the category's age-bracketed count columns.
	Counters []string
}

var (
	Biometric = Category{
		Name:     "BIOMETRIC",
		Prefix:   "biometric",
		InputDir: "api_data_aadhar_biometric",
		Counters: []string{"bio_age_5_17", "bio_age_17_"},
	}
	Demographic = Category{
		Name:     "DEMOGRAPHIC",
		Prefix:   "demographic",
		InputDir: "api_data_aadhar_demographic",
		Counters: []string{"demo_age_5_17", "demo_age_17_"},
	}
	Enrolment = Category{
		Name:     "ENROLMENT",
		Prefix:   "enrolment",
		InputDir: "api_data_aadhar_enrolment",
		Counters: []string{"age_0_5", "age_5_17", "age_18_greater"},
	}
)

// Categories returns all categories in processing order.
func Categories() []Category {
	return []Category{Biometric, Demographic, Enrolment}
}

func CategoryByPrefix(prefix string) (Category, bool) {
	for _, c := range Categories() {
		if c.Prefix == prefix {
			return c, true
		}
	}
	return Category{}, false
}
