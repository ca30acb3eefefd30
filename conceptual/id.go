package conceptual

// DatasetID names one occurrence dataset, conventionally the parent
// directory of its occurrences file, e.g. "HBF.113917-pentatomidae-suomi".
type DatasetID string

func (d DatasetID) String() string {
	return string(d)
}

func (d DatasetID) Empty() bool {
	return d == ""
}
