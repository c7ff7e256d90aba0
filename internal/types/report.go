package types

import "time"

// AggregatedItem represents one product's cumulative sales over the
// reporting window, joined with its resolved metadata.
type AggregatedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
}

// RankedSelection is the top-K aggregated items, sorted by quantity
// descending with first-seen order preserved on ties.
type RankedSelection []AggregatedItem

// ImageAsset holds fetched image bytes for a single product. Data is
// nil when the product has no image URL or the fetch failed.
type ImageAsset struct {
	ProductID string
	Data      []byte
}

// Present reports whether the asset carries image bytes.
func (a *ImageAsset) Present() bool {
	return a != nil && len(a.Data) > 0
}

// ReportArtifact is a rendered report document ready for storage.
type ReportArtifact struct {
	Path        string
	ContentType string
	Data        []byte
}

// ReportMetadata is one entry in the append-only log of generated
// reports. Entries are never updated or deleted by the pipeline.
type ReportMetadata struct {
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}
