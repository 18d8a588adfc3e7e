package ports

// Port is static reference data describing a sea port. Records are
// immutable once seeded.
type Port struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}
