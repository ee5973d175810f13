package model

// Relation names a product association that a repository may load
type Relation string

const (
	RelCategory   Relation = "category"
	RelTags       Relation = "tags"
	RelAttributes Relation = "attributes"
	RelDiscounts  Relation = "discounts"
	RelVariants   Relation = "variants"
	RelMedia      Relation = "media"
)

// AllRelations is what a detail read loads
var AllRelations = []Relation{RelCategory, RelTags, RelAttributes, RelDiscounts, RelVariants, RelMedia}

// Relations records which associations were actually loaded on an entity,
// so an empty slice can be told apart from one that was never fetched.
type Relations map[Relation]bool

func (r Relations) Has(rel Relation) bool {
	return r[rel]
}

// With returns a copy that also contains rels
func (r Relations) With(rels ...Relation) Relations {
	out := make(Relations, len(r)+len(rels))
	for k, v := range r {
		out[k] = v
	}
	for _, rel := range rels {
		out[rel] = true
	}
	return out
}
