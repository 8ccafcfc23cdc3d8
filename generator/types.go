package generator

import "strings"

// Mode values accepted in KitRequest.Mode. They only change client copy.
const (
	ModeFull    = "full"
	ModePreview = "preview"
)

// KitRequest describes the customer and the kit they want generated.
type KitRequest struct {
	ProductSlug  string `json:"productSlug"`
	ProductName  string `json:"productName"`
	BusinessName string `json:"businessName"`
	Industry     string `json:"industry"`
	State        string `json:"state"`
	Employees    string `json:"employees,omitempty"`
	Risks        string `json:"risks,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// Validate reports ErrMissingFields when any required field is blank.
func (r KitRequest) Validate() error {
	for _, v := range []string{r.ProductSlug, r.ProductName, r.BusinessName, r.Industry, r.State} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

// OutlinePlan is the structured outline the model is asked to return.
// Every field is optional. Empty strings and empty slices count as absent
// and are dropped when the plan is encoded.
type OutlinePlan struct {
	Summary        string    `json:"summary,omitempty"`
	Sections       []Section `json:"sections,omitempty"`
	Implementation string    `json:"implementation,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Disclaimer     string    `json:"disclaimer,omitempty"`
}

// Section is one titled block of the outline.
type Section struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Items       []string `json:"items,omitempty"`
}

// Filename is the download name of the document generated for slug.
func Filename(slug string) string {
	return "comply-desk-" + slug + ".docx"
}
