package ugmirror

import "strings"

// VINLength is the length of a full vehicle identification number.
const VINLength = 17

// VehicleRef identifies the vehicle whose user guide is being mirrored.
// It is supplied once at startup and immutable for the run.
type VehicleRef struct {
	// Identifier is either a 17-character VIN or a registration plate.
	// Plates are translated to a VIN by the catalog service before login.
	Identifier string `json:"identifier"`

	// Language is the locale code of the guide, e.g. "fr_FR".
	Language string `json:"language"`
}

// Validate returns an error if the reference contains invalid fields.
func (r VehicleRef) Validate() error {
	if strings.TrimSpace(r.Identifier) == "" {
		return Errorf(EINVALID, "vehicle identifier required")
	}
	if strings.TrimSpace(r.Language) == "" {
		return Errorf(EINVALID, "language required")
	}
	return nil
}

// IsVIN reports whether the identifier looks like a full VIN rather than a
// registration plate.
func (r VehicleRef) IsVIN() bool {
	return len(r.Identifier) == VINLength
}

// Normalized returns a copy of the reference with the identifier uppercased,
// the form the remote service expects.
func (r VehicleRef) Normalized() VehicleRef {
	r.Identifier = strings.ToUpper(strings.TrimSpace(r.Identifier))
	return r
}
