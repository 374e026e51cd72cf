package model

// ClothingItem is a single recommended or saved garment.
//
// Items have no generated ID. Identity for save/unsave purposes is the
// ImageURL — a structural key that is unique within one recommendation
// bundle and within one user's closet. Two items with the same ImageURL
// are the same item, whatever their other fields say.
type ClothingItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

// ContainsItem reports whether items already holds an entry with the same
// ImageURL as item.
func ContainsItem(items []ClothingItem, item ClothingItem) bool {
	for _, saved := range items {
		if saved.ImageURL == item.ImageURL {
			return true
		}
	}
	return false
}

// ToggleItem returns a new slice with item added if it was absent, or with
// every entry sharing its ImageURL removed if it was present. The input
// slice is never mutated.
//
// Invariant: the result contains at most one entry per ImageURL, so
// toggling twice with the same item is a no-op pair.
func ToggleItem(items []ClothingItem, item ClothingItem) []ClothingItem {
	if ContainsItem(items, item) {
		out := make([]ClothingItem, 0, len(items))
		for _, saved := range items {
			if saved.ImageURL != item.ImageURL {
				out = append(out, saved)
			}
		}
		return out
	}
	out := make([]ClothingItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}
