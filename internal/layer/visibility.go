package layer

// Visibility is the set of layer ids currently shown, kept in configuration order
type Visibility struct {
	order []string
	shown map[string]bool
}

// NewVisibility creates a set with every configured layer visible
func NewVisibility(configs []Config) *Visibility {
	v := &Visibility{
		order: make([]string, 0, len(configs)),
		shown: make(map[string]bool, len(configs)),
	}

	for _, c := range configs {
		v.order = append(v.order, c.ID)
		v.shown[c.ID] = true
	}

	return v
}

// Set shows or hides a layer. Unknown ids are ignored.
func (v *Visibility) Set(id string, visible bool) {
	if _, ok := v.shown[id]; !ok {
		return
	}
	v.shown[id] = visible
}

// Toggle flips a layer and returns its new state
func (v *Visibility) Toggle(id string) bool {
	v.Set(id, !v.shown[id])
	return v.shown[id]
}

// Has returns true if the layer is shown
func (v *Visibility) Has(id string) bool {
	return v.shown[id]
}

// Len returns the number of shown layers
func (v *Visibility) Len() int {
	count := 0
	for _, shown := range v.shown {
		if shown {
			count++
		}
	}
	return count
}

// IDs returns the shown layer ids in configuration order
func (v *Visibility) IDs() []string {
	ids := make([]string, 0, len(v.order))
	for _, id := range v.order {
		if v.shown[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
