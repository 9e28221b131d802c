package deck

import "food-lens/api/internal/foodcheck"

// Card is one submitted dish.
type Card struct {
	ID          string
	Name        string
	Description string
	Images      []foodcheck.Image
	Analysis    foodcheck.Analysis
}

// Feed lists cards newest first.
type Feed struct {
	cards []Card
}

func (f Feed) Len() int { return len(f.cards) }

func (f Feed) Cards() []Card {
	return append([]Card(nil), f.cards...)
}

func (f Feed) Get(id string) (Card, bool) {
	for _, c := range f.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Prepend puts c at the top of the feed.
func (f Feed) Prepend(c Card) Feed {
	out := make([]Card, 0, len(f.cards)+1)
	out = append(out, c)
	out = append(out, f.cards...)
	return Feed{cards: out}
}

// Remove reports false and returns f unchanged when id is unknown.
func (f Feed) Remove(id string) (Feed, bool) {
	for i, c := range f.cards {
		if c.ID != id {
			continue
		}
		out := make([]Card, 0, len(f.cards)-1)
		out = append(out, f.cards[:i]...)
		out = append(out, f.cards[i+1:]...)
		return Feed{cards: out}, true
	}
	return f, false
}
