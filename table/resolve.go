package table

import (
	"fmt"

	"github.com/go-edgebit/ioctl/ioc"
)

// Resolved is an entry encoded for one layout.
type Resolved struct {
	Entry  *Entry
	Fields ioc.Fields
	Code   ioc.Code
	// Raw is set for entries given as a literal code.
	Raw bool
}

// Resolve encodes every entry with layout, in file order. It fails on the
// first entry layout cannot encode.
func (table *Table) Resolve(layout ioc.Layout) ([]Resolved, error) {
	defs := table.parsed
	resolved := make([]Resolved, 0, len(defs.Ioctls))

	for i := range defs.Ioctls {
		r, err := table.resolve(layout, &defs.Ioctls[i])
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}

	return resolved, nil
}

// ResolveEntry encodes the entry called name with layout. Other entries are
// not looked at, so one that layout cannot encode does not get in the way.
func (table *Table) ResolveEntry(layout ioc.Layout, name string) (Resolved, error) {
	for i := range table.parsed.Ioctls {
		entry := &table.parsed.Ioctls[i]
		if entry.Name == name {
			return table.resolve(layout, entry)
		}
	}
	return Resolved{}, fmt.Errorf("%s: no ioctl named %s", table.sourcePath, name)
}

func (table *Table) resolve(layout ioc.Layout, entry *Entry) (Resolved, error) {
	if entry.Raw != nil {
		return Resolved{
			Entry: entry,
			Code:  ioc.Code(*entry.Raw),
			Raw:   true,
		}, nil
	}

	f, err := entry.Fields(table.parsed.Group)
	if err != nil {
		return Resolved{}, err
	}

	c, err := layout.EncodeFields(f)
	if err != nil {
		return Resolved{}, fmt.Errorf("%s: %w", entry.Name, err)
	}

	return Resolved{
		Entry:  entry,
		Fields: f,
		Code:   c,
	}, nil
}

// Lookup returns the names of the entries that encode to c under layout.
// Unrelated drivers may share a code, so there can be more than one.
// Entries that layout cannot encode never match.
func (table *Table) Lookup(layout ioc.Layout, c ioc.Code) []string {
	var names []string
	for i := range table.parsed.Ioctls {
		r, err := table.resolve(layout, &table.parsed.Ioctls[i])
		if err != nil {
			continue
		}
		if r.Code == c {
			names = append(names, r.Entry.Name)
		}
	}

	return names
}
