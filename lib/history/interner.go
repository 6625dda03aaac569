package history

// Interner hands out one shared instance per distinct string value. It is
// not safe for concurrent use; each store owns its own tables.
type Interner struct {
	values map[string]string
}

func NewInterner() *Interner {
	return &Interner{values: make(map[string]string)}
}

func (i *Interner) Intern(s string) string {
	if v, ok := i.values[s]; ok {
		return v
	}
	i.values[s] = s
	return s
}

func (i *Interner) Len() int {
	return len(i.values)
}
