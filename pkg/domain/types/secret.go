package types

// Secret holds a credential such as a private token. The logger redacts
// all Secret values, so instance configuration can be logged safely.
type Secret string

// Unwrap returns the raw credential for use at the API boundary.
func (s Secret) Unwrap() string {
	return string(s)
}
