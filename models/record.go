package models

// Record is one row of a cached collection, in the same generic shape the
// server pushes over the realtime channel. Typed views (orders, tables) are
// the presentation layer's concern; the sync core only needs identity and
// field-level patching.
type Record map[string]any

// ID returns the record's "id" field as a string, empty if absent or not a
// string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow-field copy of the record. Field values are assumed
// to be JSON scalars/containers owned by the record; top-level mutation of the
// clone never touches the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Collection is the cached value of one (resource, scope) pair.
type Collection []Record

// Clone deep-copies the collection one record level down, which is enough to
// make optimistic snapshots safe to restore.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// RemoveByID returns the collection without the record whose id field equals
// id, and whether a record was removed.
func (c Collection) RemoveByID(id string) (Collection, bool) {
	for i, r := range c {
		if r.ID() == id {
			out := make(Collection, 0, len(c)-1)
			out = append(out, c[:i]...)
			out = append(out, c[i+1:]...)
			return out, true
		}
	}
	return c, false
}
