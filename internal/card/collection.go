package card

// Upsert replaces the entry with c.ID in place, or appends c when no entry
// matches. The input slice is not modified.
func Upsert(list []Card, c Card) []Card {
	out := make([]Card, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].ID == c.ID {
			out[i] = c
			return out
		}
	}
	return append(out, c)
}

// Remove drops the entry with the given id, keeping the order of the rest.
// An unknown id returns an unchanged copy.
func Remove(list []Card, id string) []Card {
	out := make([]Card, 0, len(list))
	for _, c := range list {
		if c.ID == id {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Find returns the card with id.
func Find(list []Card, id string) (Card, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
