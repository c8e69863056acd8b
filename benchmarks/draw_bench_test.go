// Package benchmarks measures the decklist pipeline: parsing, expansion,
// sampling, aggregation and the JSON responses built from them.
//
// To run:
//
//	go test -bench=. -benchmem ./benchmarks/...
//
// To compare two runs:
//
//	go install golang.org/x/perf/cmd/benchstat@latest
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > old.txt
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > new.txt
//	benchstat old.txt new.txt
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cardlookup"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/deckimport"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

var (
	colorCycle = []string{"W", "U", "B", "R", "G", "WU", "BR", "", "UBG"}
	typeCycle  = []string{"Creature", "Instant", "Sorcery", "Basic Land", "Artifact Creature", "Enchantment", "Legendary Planeswalker"}
)

// makeDecklist builds a decklist of n distinct cards with 1 to 4 copies each.
func makeDecklist(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d Card Number %d (S%02d)\n", i%4+1, i, i%12)
	}
	return b.String()
}

func makeMetadata(lines []deckimport.ParsedLine) map[cards.Key]cards.Metadata {
	metadata := make(map[cards.Key]cards.Metadata, len(lines))
	for i, line := range lines {
		key := line.Key()
		metadata[key] = cards.NewMetadata(key, &cards.Resolution{
			ColorIdentity: colorCycle[i%len(colorCycle)],
			TypeLine:      typeCycle[i%len(typeCycle)],
		})
	}
	return metadata
}

func makeDeck(n int) drawer.Deck {
	lines := deckimport.ParseDecklist(makeDecklist(n))
	return drawer.Expand(lines, makeMetadata(lines), &drawer.SequenceGenerator{Prefix: "c"})
}

func sizeName(n int) string {
	switch {
	case n < 50:
		return "Small"
	case n < 500:
		return "Medium"
	default:
		return "Large"
	}
}

func BenchmarkParseDecklist(b *testing.B) {
	for _, n := range []int{25, 250, 2500} {
		text := makeDecklist(n)
		b.Run(sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = deckimport.Parse(text)
			}
		})
	}
}

func BenchmarkExpand(b *testing.B) {
	lines := deckimport.ParseDecklist(makeDecklist(250))
	metadata := makeMetadata(lines)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = drawer.Expand(lines, metadata, &drawer.SequenceGenerator{Prefix: "c"})
	}
}

func BenchmarkSampler(b *testing.B) {
	deck := makeDeck(25)

	for _, mode := range []drawer.DrawMode{drawer.DrawIndependent, drawer.DrawConsume} {
		b.Run(string(mode), func(b *testing.B) {
			sampler := drawer.NewSampler(deck, drawer.SamplerOptions{
				Mode: mode,
				Rand: rand.New(rand.NewPCG(1, 2)),
			})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = sampler.Draw()
			}
		})
	}
}

func BenchmarkAggregate(b *testing.B) {
	deck := makeDeck(25)
	sampler := drawer.NewSampler(deck, drawer.SamplerOptions{Rand: rand.New(rand.NewPCG(3, 4))})

	for _, n := range []int{10, 1000, drawer.MaxDrawCount} {
		hands := sampler.DrawN(n)
		b.Run(fmt.Sprintf("Hands%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = stats.Aggregate(hands)
			}
		})
	}
}

func BenchmarkSnapshotJSON(b *testing.B) {
	deck := makeDeck(25)
	sampler := drawer.NewSampler(deck, drawer.SamplerOptions{Rand: rand.New(rand.NewPCG(5, 6))})
	snap := stats.Aggregate(sampler.DrawN(1000))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(snap); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookupAllCached(b *testing.B) {
	lines := deckimport.ParseDecklist(makeDecklist(250))
	metadata := makeMetadata(lines)
	keys := deckimport.Keys(lines)

	resolver := cardlookup.ResolverFunc(func(_ context.Context, name, setCode string) (*cards.Resolution, error) {
		md := metadata[cards.NewKey(name, setCode)]
		return &cards.Resolution{ColorIdentity: md.ColorIdentity.String(), TypeLine: md.TypeLine}, nil
	})
	service := cardlookup.NewService(resolver, cardlookup.NewCache(), cardlookup.DefaultServiceOptions())
	ctx := context.Background()

	if _, err := service.LookupAll(ctx, keys); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := service.LookupAll(ctx, keys); err != nil {
			b.Fatal(err)
		}
	}
}
