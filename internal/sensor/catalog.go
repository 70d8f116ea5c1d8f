package sensor

// Descriptor is one sensor reported by the platform registry. Kind is
// KindUnknown for devices the engine cannot classify.
type Descriptor struct {
	Kind   Kind
	Device string // e.g. "iio:device2/ak09911"
	Vendor string // e.g. "AKM magnetometer"
}

// Entry is one selectable sensor in the catalog.
type Entry struct {
	Kind   Kind
	Name   string
	Device string
}

// Catalog is the read-only list of sensors available at startup.
type Catalog struct {
	entries []Entry
	devices []Descriptor
}

// NewCatalog builds a catalog from the platform registry. The first device
// reported for a kind becomes that kind's default.
func NewCatalog(descs []Descriptor) *Catalog {
	first := make(map[Kind]Descriptor)
	for _, d := range descs {
		if !d.Kind.Known() {
			continue
		}
		if _, seen := first[d.Kind]; !seen {
			first[d.Kind] = d
		}
	}

	c := &Catalog{devices: append([]Descriptor(nil), descs...)}
	for _, k := range Kinds {
		d, ok := first[k]
		if !ok {
			continue
		}
		c.entries = append(c.entries, Entry{Kind: k, Name: k.DisplayName(), Device: d.Device})
	}
	return c
}

// List returns the selectable sensors in kind order.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry for kind, if the platform has one.
func (c *Catalog) Lookup(kind Kind) (Entry, bool) {
	for _, e := range c.entries {
		if e.Kind == kind {
			return e, true
		}
	}
	return Entry{}, false
}

// Devices returns every device the platform reported, known or not.
func (c *Catalog) Devices() []Descriptor {
	out := make([]Descriptor, len(c.devices))
	copy(out, c.devices)
	for i := range out {
		if out[i].Vendor == "" {
			out[i].Vendor = FriendlyName(deviceBase(out[i].Device))
		}
	}
	return out
}

func deviceBase(device string) string {
	for i := len(device) - 1; i >= 0; i-- {
		if device[i] == '/' {
			return device[i+1:]
		}
	}
	return device
}
