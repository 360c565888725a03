package tags

// RecordCategories is the fixed processing order of e621 tag categories.
var RecordCategories = []string{"artist", "character", "species", "copyright", "general", "meta"}

// Category is a named bucket of raw tags.
type Category struct {
	Name string
	Tags []string
}

// Aggregate normalizes every category and concatenates the results in the
// order given.
func Aggregate(categories []Category, n Normalizer, filter bool) []string {
	var out []string
	for _, c := range categories {
		out = append(out, n.Apply(c.Tags, c.Name, filter)...)
	}
	return out
}
