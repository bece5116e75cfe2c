package product

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vvka-141/datahub/pkg/datahub"
)

// Point is a WGS 84 coordinate. Source strings list latitude first; the
// database point is built longitude first.
type Point struct {
	Lon float64
	Lat float64
}

// Row is one flattened product, ready for upsert. Nil pointers are NULL.
type Row struct {
	ProductID           string
	ProductName         string
	ProductNameLanguage *string
	CompanyBusinessName *string
	ProductType         *string
	WebshopURLPrimary   *string
	URLPrimary          *string
	Accessible          *bool
	UpdatedAt           *string
	PostalCode          *string
	StreetName          *string
	City                *string
	Location            *Point
	Raw                 json.RawMessage
}

// Normalize flattens one raw product object. It returns an error wrapping
// datahub.ErrInvalidRecord when the product has no id or no usable name.
// A malformed location never fails normalization; it yields a nil Location.
func Normalize(raw json.RawMessage, languages []string) (*Row, error) {
	p, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("product is not a JSON object: %w", datahub.ErrInvalidRecord)
	}

	id := strings.TrimSpace(p.ID.Value)
	if !p.ID.Valid || id == "" {
		return nil, fmt.Errorf("encountered product without id: %w", datahub.ErrInvalidRecord)
	}

	name, lang, ok := PickName(p.Infos(), languages)
	if !ok {
		return nil, fmt.Errorf("product %s has no productInformations.name: %w", id, datahub.ErrInvalidRecord)
	}

	row := &Row{
		ProductID:           id,
		ProductName:         name,
		ProductNameLanguage: lang,
		ProductType:         p.Type.Ptr(),
		WebshopURLPrimary:   p.WebshopURLPrimary.Ptr(),
		URLPrimary:          p.URLPrimary.Ptr(),
		Accessible:          p.Accessible.Ptr(),
		UpdatedAt:           p.UpdatedAt.Ptr(),
		Raw:                 raw,
	}

	if company, ok := p.Company.Get(); ok {
		row.CompanyBusinessName = company.BusinessName.Ptr()
	}

	if addr, ok := p.PrimaryAddress(); ok {
		row.PostalCode = addr.PostalCode.Ptr()
		row.StreetName = addr.StreetName.Ptr()
		row.City = addr.City.Ptr()
		if loc, ok := addr.Location.Get(); ok {
			if pt, ok := ParseLocation(loc); ok {
				row.Location = &pt
			}
		}
	}

	return row, nil
}

// PickName selects the display name. Languages are tried in preference order;
// within a language the first non-blank name across all entries wins. Without
// a preferred match the first non-blank name of any language is used. The
// returned language is as written in the source and may be nil.
func PickName(infos []ProductInformation, languages []string) (string, *string, bool) {
	for _, want := range languages {
		want = normalizeLanguage(want)
		for _, info := range infos {
			name := strings.TrimSpace(info.Name.Value)
			if !info.Name.Valid || name == "" {
				continue
			}
			if info.Language.Valid && normalizeLanguage(info.Language.Value) == want {
				return name, info.Language.Ptr(), true
			}
		}
	}

	for _, info := range infos {
		name := strings.TrimSpace(info.Name.Value)
		if info.Name.Valid && name != "" {
			return name, info.Language.Ptr(), true
		}
	}

	return "", nil, false
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// ParseLocation parses "(latitude,longitude)" with optional whitespace around
// the string and each number. Anything else, including non-finite numbers,
// returns false.
func ParseLocation(s string) (Point, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || len(s) < 2 {
		return Point{}, false
	}

	parts := strings.Split(strings.TrimSpace(s[1:len(s)-1]), ",")
	if len(parts) != 2 {
		return Point{}, false
	}

	lat, ok := parseCoordinate(parts[0])
	if !ok {
		return Point{}, false
	}
	lon, ok := parseCoordinate(parts[1])
	if !ok {
		return Point{}, false
	}

	return Point{Lon: lon, Lat: lat}, true
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
