// Package showcase loads client case studies for display.
package showcase

import (
	"context"

	"impulsa-web/internal/domain/clients"
)

// FeaturedHighlights is how many final metrics a featured card shows.
const FeaturedHighlights = 4

type Source interface {
	ClientsByImprovement(ctx context.Context) ([]clients.Client, error)
}

// Case is a client with its metrics already formatted.
type Case struct {
	Client      clients.Client
	Comparisons []clients.Comparison
	Highlights  []clients.Highlight
}

type Showcase struct {
	All      []Case
	Featured []Case
}

func (s Showcase) Total() int { return len(s.All) }

// Load reads every client, keeping the source order (biggest improvement
// first), and splits out the featured ones.
func Load(ctx context.Context, src Source) (Showcase, error) {
	list, err := src.ClientsByImprovement(ctx)
	if err != nil {
		return Showcase{All: []Case{}, Featured: []Case{}}, err
	}
	return Build(list), nil
}

func Build(list []clients.Client) Showcase {
	out := Showcase{
		All:      make([]Case, 0, len(list)),
		Featured: []Case{},
	}
	for _, c := range list {
		initial, final := c.Initial(), c.Final()
		cs := Case{
			Client:      c,
			Comparisons: clients.Compare(initial, final),
			Highlights:  clients.Highlights(final, FeaturedHighlights),
		}
		out.All = append(out.All, cs)
		if c.Featured {
			out.Featured = append(out.Featured, cs)
		}
	}
	return out
}
