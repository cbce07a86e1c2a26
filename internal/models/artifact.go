package models

// Chart artifact kinds understood by the renderer and the UI.
const (
	KindBar        = "bar"
	KindGroupedBar = "grouped_bar"
	KindHistogram  = "histogram"
	KindBox        = "box"
	KindSunburst   = "sunburst"
)

// PlaceholderMessage is shown whenever a filter combination leaves a
// chart with nothing to draw.
const PlaceholderMessage = "No data available for current filters"

// Point is one labeled value in a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points. Grouped-bar artifacts carry
// one series per group (e.g. per income label).
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// BoxSummary is the five-number summary (plus count and mean) of one
// group in a box-plot artifact.
type BoxSummary struct {
	Group  string  `json:"group"`
	Series string  `json:"series,omitempty"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Segment is one ring slice of a sunburst artifact. Children subdivide
// the parent's count.
type Segment struct {
	Label    string    `json:"label"`
	Count    int       `json:"count"`
	Children []Segment `json:"children,omitempty"`
}

// Artifact is the renderable output of one chart builder. Exactly one
// of Series, Boxes or Segments is populated depending on Kind, unless
// Placeholder is set, in which case all of them are empty and Message
// explains why.
type Artifact struct {
	Chart       string       `json:"chart"`
	Kind        string       `json:"kind"`
	Title       string       `json:"title"`
	XLabel      string       `json:"x_label,omitempty"`
	YLabel      string       `json:"y_label,omitempty"`
	LogX        bool         `json:"log_x,omitempty"`
	Rows        int          `json:"rows"`
	Placeholder bool         `json:"placeholder,omitempty"`
	Message     string       `json:"message,omitempty"`
	Series      []Series     `json:"series,omitempty"`
	Boxes       []BoxSummary `json:"boxes,omitempty"`
	Segments    []Segment    `json:"segments,omitempty"`
}
