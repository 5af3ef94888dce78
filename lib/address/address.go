package address

import (
	"fmt"
	"strings"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the recommended map bounds for displaying a place.
type Viewport struct {
	Northeast LatLng `json:"northeast"`
	Southwest LatLng `json:"southwest"`
}

// Component is one type-tagged piece of a geocoded address.
type Component struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Record is a geocoded place as returned by the place-details
// collaborator. The engine only ever reads it.
type Record struct {
	FormattedAddress string      `json:"formatted_address"`
	Components       []Component `json:"address_components"`
	Location         LatLng      `json:"location"`
	Viewport         *Viewport   `json:"viewport,omitempty"`
}

// Canonical is the adapter-agnostic view of an address, produced fresh
// for every resolution call and never mutated afterwards.
type Canonical struct {
	Unit         string
	StreetNumber string
	StreetName   string
	Suburb       string
	State        string
	Postcode     string
	Location     LatLng
}

func componentByType(components []Component, typ string) (Component, bool) {
	for _, c := range components {
		for _, t := range c.Types {
			if t == typ {
				return c, true
			}
		}
	}
	return Component{}, false
}

func longName(components []Component, typ string) string {
	c, ok := componentByType(components, typ)
	if !ok {
		return ""
	}
	return c.LongName
}

// Normalize derives the canonical component set from a geocoded record.
// A record missing its street number or street name still normalizes,
// with those fields empty; downstream candidate matching can sometimes
// succeed on the route name alone.
func Normalize(rec Record) Canonical {
	state := ""
	if c, ok := componentByType(rec.Components, "administrative_area_level_1"); ok {
		state = c.ShortName
	}

	return Canonical{
		Unit:         longName(rec.Components, "subpremise"),
		StreetNumber: longName(rec.Components, "street_number"),
		StreetName:   longName(rec.Components, "route"),
		Suburb:       longName(rec.Components, "locality"),
		State:        state,
		Postcode:     longName(rec.Components, "postal_code"),
		Location:     rec.Location,
	}
}

// RenderOptions control the search-string shape a provider family
// expects. The portal family omits the suburb and upper-cases the whole
// string; everyone else takes the default rendering.
type RenderOptions struct {
	OmitSuburb bool
	Uppercase  bool
}

// SearchString renders the address into the keyword a provider's
// search endpoint expects. A unit number is joined onto the street
// number with a slash.
func (c Canonical) SearchString(opts RenderOptions) string {
	number := c.StreetNumber
	if c.Unit != "" && number != "" {
		number = fmt.Sprintf("%s/%s", c.Unit, number)
	}

	parts := []string{}
	street := strings.TrimSpace(fmt.Sprintf("%s %s", number, c.StreetName))
	if street != "" {
		parts = append(parts, street)
	}
	if c.Suburb != "" && !opts.OmitSuburb {
		parts = append(parts, c.Suburb)
	}

	out := strings.Join(parts, " ")
	if opts.Uppercase {
		out = strings.ToUpper(out)
	}
	return out
}
