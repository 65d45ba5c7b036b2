package testdata

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jask/cardcraft/internal/card"
)

// CardStore is the subset of the store Seed writes through.
type CardStore interface {
	Cards(ctx context.Context) []card.Card
	SaveCards(ctx context.Context, cards []card.Card) error
}

type person struct {
	Name, Title, Company, Domain, Twitter string
}

var people = []person{
	{"Ada Lovelace", "Engineer", "Analytical Engines", "analytical.dev", "@ada"},
	{"Grace Hopper", "Rear Admiral", "US Navy", "navy.mil", "@amazinggrace"},
	{"Alan Turing", "Mathematician", "Bletchley Park", "bletchley.uk", ""},
	{"Katherine Johnson", "Research Mathematician", "NASA Langley", "nasa.gov", ""},
	{"Linus Torvalds", "Maintainer", "Linux Foundation", "kernel.org", ""},
	{"Margaret Hamilton", "Director of Software", "MIT Instrumentation Lab", "mit.edu", "@mhamilton"},
	{"Dennis Ritchie", "Researcher", "Bell Labs", "bell-labs.com", ""},
	{"Radia Perlman", "Fellow", "Dell EMC", "dell.com", ""},
}

// SampleCards builds n cards cycling through a fixed cast with randomised
// templates and themes. A nil rng uses a random seed.
func SampleCards(f *card.Factory, n int, rng *rand.Rand) []card.Card {
	if f == nil {
		f = &card.Factory{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	templates, themes := card.Templates(), card.ColorThemes()

	out := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		p := people[i%len(people)]
		c := f.New()
		c.Name = p.Name
		c.Title = p.Title
		c.Company = p.Company
		c.Email = fmt.Sprintf("%s@%s", handle(p.Name), p.Domain)
		c.Website = "https://" + p.Domain
		c.Twitter = p.Twitter
		if rng.IntN(2) == 0 {
			c.Phone = fmt.Sprintf("+1 555 %04d", rng.IntN(10000))
		}
		if p.Twitter == "" {
			c.LinkedIn = "linkedin.com/in/" + handle(p.Name)
		}
		c.Template = templates[rng.IntN(len(templates))]
		c.ColorTheme = themes[rng.IntN(len(themes))]
		out = append(out, c)
	}
	return out
}

// Seed appends n sample cards to the stored collection and returns them.
func Seed(ctx context.Context, s CardStore, f *card.Factory, n int) ([]card.Card, error) {
	if n <= 0 {
		return nil, fmt.Errorf("seed count must be positive, got %d", n)
	}
	samples := SampleCards(f, n, nil)
	cards := s.Cards(ctx)
	for _, c := range samples {
		cards = card.Upsert(cards, c)
	}
	if err := s.SaveCards(ctx, cards); err != nil {
		return nil, fmt.Errorf("save seeded cards: %w", err)
	}
	return samples, nil
}

func handle(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		case r == ' ':
			out = append(out, '.')
		}
	}
	return string(out)
}
