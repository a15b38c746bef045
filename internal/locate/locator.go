package locate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// LocationCount is one resolved place with its total mention count across the
// dataset.
type LocationCount struct {
	Name  string
	Count int
	Geo   domain.Geo
}

// Locator is the stage that extracts place names from classified posts,
// geocodes them, and writes the location-enriched dataset plus the frequency
// table and heatmap artifacts.
type Locator struct {
	cfg       *config.Config
	extractor *Extractor
	geocoder  domain.Geocoder
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func New(cfg *config.Config, wl *config.Watchlist, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Locator {
	return &Locator{
		cfg:       cfg,
		extractor: NewExtractor(wl, metrics, logger),
		geocoder:  geocoder,
		metrics:   metrics,
		logger:    logger,
	}
}

func (l *Locator) Name() string { return "locate" }

// Run reads the classified dataset, annotates every post with the places it
// mentions and their coordinates, and writes the located dataset, the top
// locations table, and the heatmap.
func (l *Locator) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	posts, err := dataset.ReadPosts(l.cfg.ArtifactPath(config.UpdatedDataset))
	if err != nil {
		return err
	}

	extracted := make([][]string, len(posts))
	for i, p := range posts {
		extracted[i] = l.extractor.Places(p.Content)
	}

	resolved, err := l.resolvePlaces(ctx, extracted)
	if err != nil {
		return err
	}

	for i := range posts {
		locations := make([]string, 0, len(extracted[i]))
		coordinates := make([]domain.Geo, 0, len(extracted[i]))
		for _, place := range extracted[i] {
			geo, ok := resolved[strings.ToLower(place)]
			if !ok {
				continue
			}
			locations = append(locations, place)
			coordinates = append(coordinates, geo)
		}
		posts[i].Locations = locations
		posts[i].Coordinates = coordinates
	}

	outPath := l.cfg.ArtifactPath(config.LocatedDataset)
	if err := dataset.WritePosts(outPath, posts); err != nil {
		return err
	}
	l.logger.Info("located dataset written", "path", outPath, "posts", len(posts))

	counts := countLocations(posts, resolved)
	if err := l.writeTopLocations(counts); err != nil {
		return err
	}
	return l.writeHeatmap(counts)
}

// resolvePlaces geocodes each distinct place name once. Places that fail to
// resolve are logged and left out, which drops them from every post.
func (l *Locator) resolvePlaces(ctx context.Context, extracted [][]string) (map[string]domain.Geo, error) {
	distinct := make(map[string]string)
	var order []string
	for _, places := range extracted {
		for _, place := range places {
			key := strings.ToLower(place)
			if _, ok := distinct[key]; !ok {
				distinct[key] = place
				order = append(order, key)
			}
		}
	}

	resolved := make(map[string]domain.Geo, len(distinct))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		place := distinct[key]
		result, err := l.geocoder.Geocode(ctx, place)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			l.logger.Warn("geocoding failed, dropping place", "place", place, "error", err)
			continue
		}
		if !result.Found() {
			l.logger.Warn("place not found, dropping", "place", place)
			continue
		}
		resolved[key] = domain.Geo{Lat: result.Lat, Lon: result.Lon}
	}
	l.logger.Info("places resolved", "distinct", len(distinct), "resolved", len(resolved))
	return resolved, nil
}

// countLocations tallies mentions of each resolved place across all posts,
// sorted by count descending with ties broken alphabetically.
func countLocations(posts []domain.Post, resolved map[string]domain.Geo) []LocationCount {
	tally := make(map[string]int)
	names := make(map[string]string)
	for _, p := range posts {
		for _, place := range p.Locations {
			key := strings.ToLower(place)
			tally[key]++
			names[key] = place
		}
	}

	counts := make([]LocationCount, 0, len(tally))
	for key, n := range tally {
		counts = append(counts, LocationCount{Name: names[key], Count: n, Geo: resolved[key]})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

func (l *Locator) writeTopLocations(counts []LocationCount) error {
	top := counts[:min(len(counts), 5)]
	rows := make([][]string, 0, len(top))
	for _, lc := range top {
		rows = append(rows, []string{lc.Name, strconv.Itoa(lc.Count)})
	}

	path := l.cfg.ArtifactPath(config.TopLocationsTable)
	if err := dataset.WriteCSV(path, []string{"Location", "Count"}, rows); err != nil {
		return err
	}
	l.logger.Info("top locations written", "path", path, "rows", len(rows))
	return nil
}

func (l *Locator) writeHeatmap(counts []LocationCount) error {
	var buf strings.Builder
	if err := RenderHeatmap(&buf, counts); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}

	path := l.cfg.ArtifactPath(config.HeatmapPage)
	if err := dataset.WriteFileAtomic(path, []byte(buf.String())); err != nil {
		return err
	}
	l.logger.Info("heatmap written", "path", path, "places", len(counts))
	return nil
}
