package models

// DatasetMeta describes the loaded dataset: observed category values
// for each filterable column plus numeric bounds for the sliders.
type DatasetMeta struct {
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	Genders     []string `json:"genders"`
	Races       []string `json:"races"`
	Educations  []string `json:"educations"`
	Occupations []string `json:"occupations"`
	AgeMin      int      `json:"age_min"`
	AgeMax      int      `json:"age_max"`
	HoursMin    int      `json:"hours_min"`
	HoursMax    int      `json:"hours_max"`
}

// Meta is the static API description served to the UI at startup.
type Meta struct {
	Dataset  DatasetMeta `json:"dataset"`
	Charts   []string    `json:"charts"`
	Presets  []string    `json:"presets"`
	Formats  []string    `json:"formats"`
	Defaults Params      `json:"defaults"`
}
