// Package catalog serves the cascade lookups: hierarchical reference lists
// filtered by the activity of their parent, plus the instructor dropdown
// sources.
package catalog

// Option is one row of a dropdown source.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InstructorOption is a dropdown row for instructor selection. FullName is
// annotated with the inactive marker on the history variant.
type InstructorOption struct {
	ID       int64  `json:"id"`
	Ficha    string `json:"ficha"`
	FullName string `json:"full_name"`
}
