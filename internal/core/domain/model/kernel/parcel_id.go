package kernel

import (
	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"

	"github.com/google/uuid"
)

// ErrParcelIDIsNotConstructed is returned when validating a zero ParcelID.
var ErrParcelIDIsNotConstructed = errs.NewValueIsRequiredError(
	"ParcelID must be created via NewParcelID or ParcelIDFromString")

// ParcelID identifies a parcel for its whole lifetime. It is created once by
// the id generator and referenced by every assignment and log entry.
//
// Example:
//
//	id := kernel.NewParcelID()
//	fmt.Println(id) // e.g. "9f1c0c56-93b5-4b7e-9a8e-5d5b8c1f2a40"
type ParcelID struct {
	value string
	guard guard.ConstructorGuard
}

// NewParcelID mints a random 128-bit parcel identifier. Collisions are not
// checked; the probability is negligible for a v4 UUID.
func NewParcelID() ParcelID {
	return ParcelID{
		value: uuid.NewString(),
		guard: guard.NewConstructorGuard(),
	}
}

// ParcelIDFromString wraps an identifier received from a peer or a client.
// Any non-blank single-line token up to MaxIdentifierLength runes is accepted.
func ParcelIDFromString(s string) (ParcelID, error) {
	value, err := parseIdentifier("parcel_id", s)
	if err != nil {
		return ParcelID{}, err
	}
	return ParcelID{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustParcelID is ParcelIDFromString for literals known to be valid.
func MustParcelID(s string) ParcelID {
	id, err := ParcelIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (p ParcelID) String() string {
	return p.value
}

// IsEqual compares two identifiers by value.
func (p ParcelID) IsEqual(other ParcelID) bool {
	return p.value == other.value
}

// Validate reports whether the identifier was built by a constructor.
func (p ParcelID) Validate() error {
	return p.guard.Validate(ErrParcelIDIsNotConstructed)
}
