package domain

// Item represents a catalog item. Items are loaded once at startup and never
// mutated afterwards; everything else references them by ID.
type Item struct {
	ID          int    `json:"item_id"`
	Name        string `json:"name"`
	JobCategory string `json:"job_category,omitempty"`
	CanBeHQ     bool   `json:"can_be_hq"`
}

// Quality distinguishes normal- and high-quality listings of the same item.
// NQ and HQ are priced independently on the market board.
type Quality string

const (
	QualityNQ Quality = "NQ"
	QualityHQ Quality = "HQ"
)
