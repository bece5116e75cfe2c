// Package product decodes catalog product records and flattens them into rows.
package product

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Product is the subset of a catalog product the loader reads. Every field is
// optional; the full record is kept separately as raw JSON.
type Product struct {
	ID                  Optional[string]
	Type                Optional[string]
	Accessible          Optional[bool]
	UpdatedAt           Optional[string]
	WebshopURLPrimary   Optional[string]
	URLPrimary          Optional[string]
	Company             Optional[Company]
	ProductInformations Optional[[]Optional[ProductInformation]]
	PostalAddresses     Optional[[]Optional[PostalAddress]]
}

// ProductInformation is one localized name/description entry.
type ProductInformation struct {
	Language    Optional[string]
	Name        Optional[string]
	Description Optional[string]
}

// Company is the product's operator.
type Company struct {
	BusinessName Optional[string]
}

// PostalAddress is one postal address. Location has the form "(lat,lon)".
type PostalAddress struct {
	PostalCode Optional[string]
	StreetName Optional[string]
	City       Optional[string]
	Location   Optional[string]
}

// UnmarshalJSON matches keys exactly, unlike encoding/json's default
// case-insensitive field matching: "ID" is not "id". The nested types below
// decode the same way.
func (p *Product) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*p = Product{}
	field(fields, "id", &p.ID)
	field(fields, "type", &p.Type)
	field(fields, "accessible", &p.Accessible)
	field(fields, "updatedAt", &p.UpdatedAt)
	field(fields, "webshopUrlPrimary", &p.WebshopURLPrimary)
	field(fields, "urlPrimary", &p.URLPrimary)
	field(fields, "company", &p.Company)
	field(fields, "productInformations", &p.ProductInformations)
	field(fields, "postalAddresses", &p.PostalAddresses)
	return nil
}

func (i *ProductInformation) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*i = ProductInformation{}
	field(fields, "language", &i.Language)
	field(fields, "name", &i.Name)
	field(fields, "description", &i.Description)
	return nil
}

func (c *Company) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*c = Company{}
	field(fields, "businessName", &c.BusinessName)
	return nil
}

func (a *PostalAddress) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*a = PostalAddress{}
	field(fields, "postalCode", &a.PostalCode)
	field(fields, "streetName", &a.StreetName)
	field(fields, "city", &a.City)
	field(fields, "location", &a.Location)
	return nil
}

var errNotObject = errors.New("not a JSON object")

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	return fields, nil
}

// field decodes fields[key] into dst, leaving dst absent when key is missing.
func field[T any](fields map[string]json.RawMessage, key string, dst *Optional[T]) {
	if raw, ok := fields[key]; ok {
		_ = dst.UnmarshalJSON(raw)
	}
}

// Decode decodes a raw product object. It fails only when raw is not a JSON
// object; missing or mistyped fields are left invalid.
func Decode(raw json.RawMessage) (*Product, error) {
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Infos returns the valid localized entries in source order.
func (p *Product) Infos() []ProductInformation {
	entries, ok := p.ProductInformations.Get()
	if !ok {
		return nil
	}
	infos := make([]ProductInformation, 0, len(entries))
	for _, e := range entries {
		if info, ok := e.Get(); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// PrimaryAddress returns the first listed address. It returns false when the
// list is absent or empty, or when its first entry is not an object; later
// entries are never consulted.
func (p *Product) PrimaryAddress() (PostalAddress, bool) {
	addrs, ok := p.PostalAddresses.Get()
	if !ok || len(addrs) == 0 {
		return PostalAddress{}, false
	}
	return addrs[0].Get()
}
