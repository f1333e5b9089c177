// Package format holds the small value types shared across the keystore and
// resource packages: page/item addresses and media identifiers.
package format

import "fmt"

// PageItemID addresses a single entry within a compressed text page: Page
// selects the RSC-backed page resource, Item selects the entry within it.
// The keystore's page-reference runs decode directly into a slice of these.
type PageItemID struct {
	Page uint32
	Item uint8
}

func (id PageItemID) String() string {
	return fmt.Sprintf("%d/%d", id.Page, id.Item)
}

// MediaIDKind distinguishes the two shapes a MediaID can take.
type MediaIDKind uint8

const (
	// MediaIDNumeric identifies a media resource by RSC numeric id.
	MediaIDNumeric MediaIDKind = iota
	// MediaIDString identifies a media resource by NRSC string id.
	MediaIDString
)

// MediaID identifies a media resource, either by the numeric id an
// RSC-backed media container uses, or by the string id an NRSC-backed one
// uses. Exactly one of Num/Str is meaningful, selected by Kind.
type MediaID struct {
	Kind MediaIDKind
	Num  uint32
	Str  string
}

// NumericMediaID builds a MediaID for an RSC-backed media resource.
func NumericMediaID(n uint32) MediaID {
	return MediaID{Kind: MediaIDNumeric, Num: n}
}

// StringMediaID builds a MediaID for an NRSC-backed media resource.
func StringMediaID(s string) MediaID {
	return MediaID{Kind: MediaIDString, Str: s}
}

// String renders a numeric id zero-padded to 10 digits, matching the
// container's own on-disk filename convention; a string id renders as-is.
func (id MediaID) String() string {
	if id.Kind == MediaIDString {
		return id.Str
	}

	return fmt.Sprintf("%010d", id.Num)
}
