package ports

// DatasetReader supplies header-keyed rows of string values from a tabular
// file. Row order follows file order; the validator turns rows into typed
// records and collects per-row errors.
type DatasetReader interface {
	ReadRows(path string) ([]map[string]string, error)
}
