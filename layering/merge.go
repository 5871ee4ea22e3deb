package layering

// MergeLayers composes maps ordered from strongest to weakest, returning a new
// map that keeps entries from stronger layers while filling any missing keys
// from weaker ones. Inputs are never modified.
func MergeLayers[K comparable, V any](layers ...map[K]V) map[K]V {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	merged := make(map[K]V, size)
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i] {
			merged[key] = value
		}
	}
	return merged
}
