// Package exchange serializes fill orders from several execution venues into
// the single byte string the settlement contract decodes.
package exchange

import "fmt"

// Venue is the tag written at the start of every venue header.
type Venue uint8

const (
	VenueZeroEx      Venue = 1 // relayed 0x v2 orders
	VenueKyber       Venue = 2 // Kyber network trades
	VenueTakerWallet Venue = 3 // fills straight from the taker's wallet
)

// canonicalVenues is the order venue sections appear in a serialized buffer.
var canonicalVenues = [...]Venue{VenueZeroEx, VenueKyber, VenueTakerWallet}

// CanonicalVenues returns the fixed serialization order.
func CanonicalVenues() []Venue {
	out := canonicalVenues
	return out[:]
}

func (v Venue) String() string {
	switch v {
	case VenueZeroEx:
		return "ZERO_EX"
	case VenueKyber:
		return "KYBER"
	case VenueTakerWallet:
		return "TAKER_WALLET"
	default:
		return fmt.Sprintf("Venue(%d)", uint8(v))
	}
}

// Valid reports whether v is one of the known venues.
func (v Venue) Valid() bool {
	return v >= VenueZeroEx && v <= VenueTakerWallet
}

// ParseVenue maps a venue name back to its tag.
func ParseVenue(name string) (Venue, error) {
	for _, v := range canonicalVenues {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown venue %q", name)
}

func (v Venue) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown venue %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *Venue) UnmarshalText(text []byte) error {
	parsed, err := ParseVenue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
