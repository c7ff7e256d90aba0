package types

// UnknownProductName is substituted when a product lookup misses.
const UnknownProductName = "Unknown"

// ProductRecord represents a product row from the store. ImageURL may
// be empty; products without images still appear in the report.
type ProductRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}
