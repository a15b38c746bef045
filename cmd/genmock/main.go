// Command genmock generates a deterministic sample dataset pair for local
// development and test fixtures. It runs the seed posts through the actual
// cleaning code so the fixtures match real pipeline behavior, which lets the
// classify and locate stages run without Reddit credentials.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/crisis-data-etl/internal/collect"
	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/locate"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

var baseDate = time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)

type seed struct {
	subreddit string
	id        string
	content   string
	likes     int
	comments  int
	shares    int
}

// Seed content is lowercase because the collector casefolds post text before
// storing it. Every entry matches at least one watchlist keyword, the way a
// real collected dataset would.
var seeds = []seed{
	{"depression", "t3_m01", "feeling so depressed lately, can't get out of bed", 41, 12, 3},
	{"depression", "t3_m02", "moved to nyc last year and the depression followed me", 18, 7, 1},
	{"depression", "t3_m03", "therapy help needed, nothing seems to work anymore", 9, 15, 0},
	{"mentalhealth", "t3_m04", "panic attack on the subway in new york city this morning", 64, 22, 8},
	{"mentalhealth", "t3_m05", "my anxiety is ruining everything i care about", 27, 9, 2},
	{"mentalhealth", "t3_m06", "mental breakdown at work again, i'm in la now and it is not helping", 12, 4, 0},
	{"suicidewatch", "t3_m07", "feeling suicidal and completely hopeless tonight", 88, 35, 11},
	{"suicidewatch", "t3_m08", "i cant do this anymore, there is no reason to live", 130, 54, 19},
	{"suicidewatch", "t3_m09", "overwhelmed and alone in the uk", 22, 8, 1},
	{"addiction", "t3_m10", "relapse after six months clean, i hate myself for it", 33, 17, 2},
	{"addiction", "t3_m11", "substance abuse support groups in texas are impossible to find", 15, 6, 0},
	{"addiction", "t3_m12", "my addiction started back in sf and it never let go", 20, 5, 1},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write the dataset fixtures into")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	uncleaned := make([]domain.Post, 0, len(seeds))
	for i, s := range seeds {
		uncleaned = append(uncleaned, domain.Post{
			Subreddit: "r/" + s.subreddit,
			PostID:    s.id,
			Timestamp: domain.NewTimestamp(baseDate.Add(time.Duration(i) * 17 * time.Minute)),
			Content:   s.content,
			Likes:     s.likes,
			Comments:  s.comments,
			Shares:    s.shares,
		})
	}
	cleaned := collect.CleanPosts(uncleaned)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	uncleanedPath := filepath.Join(*outDir, config.UncleanedDataset)
	if err := dataset.WritePosts(uncleanedPath, uncleaned); err != nil {
		return fmt.Errorf("writing uncleaned fixture: %w", err)
	}
	log.Printf("wrote %d posts: %s", len(uncleaned), uncleanedPath)

	cleanedPath := filepath.Join(*outDir, config.CleanedDataset)
	if err := dataset.WritePosts(cleanedPath, cleaned); err != nil {
		return fmt.Errorf("writing cleaned fixture: %w", err)
	}
	log.Printf("wrote %d posts: %s", len(cleaned), cleanedPath)

	printStats(cleaned)
	return nil
}

type placeCount struct {
	place string
	count int
}

// printStats runs the cleaned fixture through the real place extractor so the
// numbers below stay in sync with pipeline behavior.
func printStats(posts []domain.Post) {
	wl := config.DefaultWatchlist()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	extractor := locate.NewExtractor(wl, observability.NewMetrics(), logger)

	subCounts := map[string]int{}
	placeCounts := map[string]int{}
	var noPlace int
	for _, p := range posts {
		subCounts[p.Subreddit]++
		places := extractor.Places(p.Content)
		if len(places) == 0 {
			noPlace++
		}
		for _, place := range places {
			placeCounts[place]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(posts))

	parts := make([]string, 0, len(wl.Subreddits))
	for _, sub := range wl.Subreddits {
		parts = append(parts, fmt.Sprintf("%s=%d", sub, subCounts["r/"+sub]))
	}
	fmt.Printf("By subreddit: %s\n", strings.Join(parts, ", "))

	pc := make([]placeCount, 0, len(placeCounts))
	for place, count := range placeCounts {
		pc = append(pc, placeCount{place, count})
	}
	sort.Slice(pc, func(i, j int) bool {
		if pc[i].count != pc[j].count {
			return pc[i].count > pc[j].count
		}
		return pc[i].place < pc[j].place
	})
	fmt.Printf("Places (%d): ", len(pc))
	for _, p := range pc {
		fmt.Printf("%s=%d ", p.place, p.count)
	}
	fmt.Println()
	fmt.Printf("Posts without a place mention: %d\n", noPlace)
}
