package cli

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check data contracts across the pipeline artifacts",
	Long: `Validates whichever artifacts exist in the data directory: cleaning
idempotence, record parity between stages, label enum membership,
locations/coordinates alignment, and the shape and provenance of the
aggregate outputs. Phases whose artifacts are missing are skipped.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	skipped string
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) skip(reason string) { p.skipped = reason }

func (p *phase) passed() bool { return len(p.errors) == 0 }

// artifacts holds every pipeline output found in the data directory.
type artifacts struct {
	uncleaned []domain.Post
	cleaned   []domain.Post
	updated   []domain.Post
	located   []domain.Post
	topRows   [][]string
	heatmap   []byte
	have      map[string]bool
}

func runValidate(cmd *cobra.Command, _ []string) error {
	arts, err := loadArtifacts()
	if err != nil {
		return err
	}

	phases := []*phase{
		validateCleaning(arts),
		validateClassification(arts),
		validateLocations(arts),
		validateAggregates(arts),
	}

	cmd.Println("=== Crisis Data Contract Validation ===")
	cmd.Println()

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case p.skipped != "":
			status = fmt.Sprintf("\033[33mSKIP (%s)\033[0m", p.skipped)
		case !p.passed():
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		cmd.Printf("  %-40s %s\n", p.name, status)
	}

	cmd.Println()
	cmd.Printf("Records: %d uncleaned, %d cleaned, %d updated, %d located\n",
		len(arts.uncleaned), len(arts.cleaned), len(arts.updated), len(arts.located))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		cmd.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			cmd.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		return errors.New("validation failed")
	}
	cmd.Println("\nAll validations passed.")
	return nil
}

// loadArtifacts reads every artifact that exists. A missing file is fine and
// skips its phases; an unreadable or unparseable file is fatal.
func loadArtifacts() (*artifacts, error) {
	a := &artifacts{have: make(map[string]bool)}

	for _, it := range []struct {
		name string
		dst  *[]domain.Post
	}{
		{config.UncleanedDataset, &a.uncleaned},
		{config.CleanedDataset, &a.cleaned},
		{config.UpdatedDataset, &a.updated},
		{config.LocatedDataset, &a.located},
	} {
		posts, err := dataset.ReadPosts(cfg.ArtifactPath(it.name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		*it.dst = posts
		a.have[it.name] = true
	}

	data, err := os.ReadFile(cfg.ArtifactPath(config.TopLocationsTable))
	switch {
	case err == nil:
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", config.TopLocationsTable, err)
		}
		a.topRows = rows
		a.have[config.TopLocationsTable] = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	data, err = os.ReadFile(cfg.ArtifactPath(config.HeatmapPage))
	switch {
	case err == nil:
		a.heatmap = data
		a.have[config.HeatmapPage] = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return a, nil
}

// checkParity verifies that a later artifact carries exactly the records of an
// earlier one, in order.
func checkParity(p *phase, earlier, later []domain.Post, earlierName, laterName string) bool {
	if len(earlier) != len(later) {
		p.errorf("%s has %d records, %s has %d", earlierName, len(earlier), laterName, len(later))
		return false
	}
	for i := range earlier {
		if earlier[i].PostID != later[i].PostID {
			p.errorf("record %d: %s has post_id %q, %s has %q",
				i, earlierName, earlier[i].PostID, laterName, later[i].PostID)
			return false
		}
	}
	return true
}

// Phase 1: collector outputs. The cleaned dataset must mirror the uncleaned
// one record for record, with content fully normalized.
func validateCleaning(a *artifacts) *phase {
	p := &phase{name: "Phase 1: Cleaning (collector outputs)"}
	if !a.have[config.UncleanedDataset] || !a.have[config.CleanedDataset] {
		p.skip("collector artifacts missing")
		return p
	}

	if !checkParity(p, a.uncleaned, a.cleaned, "uncleaned", "cleaned") {
		return p
	}

	seen := make(map[string]int)
	for i, post := range a.cleaned {
		if prev, dup := seen[post.PostID]; dup {
			p.errorf("record %d: post_id %q duplicates record %d", i, post.PostID, prev)
		}
		seen[post.PostID] = i

		if !strings.HasPrefix(post.Subreddit, "r/") {
			p.errorf("record %d: subreddit %q lacks r/ prefix", i, post.Subreddit)
		}
		if post.Likes < 0 || post.Comments < 0 || post.Shares < 0 {
			p.errorf("record %d: negative engagement counts", i)
		}
		if cleaned := domain.CleanContent(post.Content); cleaned != post.Content {
			p.errorf("record %d: content is not fully cleaned: %q", i, post.Content)
		}
	}
	return p
}

// Phase 2: classifier output. Labels must be valid enums and the content must
// pass through unchanged.
func validateClassification(a *artifacts) *phase {
	p := &phase{name: "Phase 2: Classification (labels)"}
	if !a.have[config.CleanedDataset] || !a.have[config.UpdatedDataset] {
		p.skip("classifier artifacts missing")
		return p
	}

	if !checkParity(p, a.cleaned, a.updated, "cleaned", "updated") {
		return p
	}

	for i, post := range a.updated {
		if !domain.ValidSentiment(post.Sentiment) {
			p.errorf("record %d: invalid sentiment %q", i, post.Sentiment)
		}
		if !domain.ValidRiskLevel(post.RiskLevel) {
			p.errorf("record %d: invalid risk_level %q", i, post.RiskLevel)
		}
		if post.Content != a.cleaned[i].Content {
			p.errorf("record %d: content changed during classification", i)
		}
	}
	return p
}

// Phase 3: locator output. Locations and coordinates must stay aligned and
// coordinates must be plausible.
func validateLocations(a *artifacts) *phase {
	p := &phase{name: "Phase 3: Locations (alignment)"}
	if !a.have[config.UpdatedDataset] || !a.have[config.LocatedDataset] {
		p.skip("locator artifacts missing")
		return p
	}

	if !checkParity(p, a.updated, a.located, "updated", "located") {
		return p
	}

	for i, post := range a.located {
		if len(post.Locations) != len(post.Coordinates) {
			p.errorf("record %d: %d locations but %d coordinates",
				i, len(post.Locations), len(post.Coordinates))
			continue
		}
		for j, geo := range post.Coordinates {
			if geo.Lat < -90 || geo.Lat > 90 || geo.Lon < -180 || geo.Lon > 180 {
				p.errorf("record %d: coordinate %d out of range: (%v, %v)", i, j, geo.Lat, geo.Lon)
			}
		}
		if post.Sentiment != a.updated[i].Sentiment || post.RiskLevel != a.updated[i].RiskLevel {
			p.errorf("record %d: labels changed during location enrichment", i)
		}
	}
	return p
}

// Phase 4: aggregates. The top locations table must be shaped correctly and
// every entry must come from some record, and the heatmap must exist alongside
// it.
func validateAggregates(a *artifacts) *phase {
	p := &phase{name: "Phase 4: Aggregates (top 5, heatmap)"}
	if !a.have[config.LocatedDataset] || !a.have[config.TopLocationsTable] {
		p.skip("aggregate artifacts missing")
		return p
	}

	rows := a.topRows
	if len(rows) == 0 {
		p.errorf("%s is empty", config.TopLocationsTable)
		return p
	}
	if len(rows[0]) != 2 || rows[0][0] != "Location" || rows[0][1] != "Count" {
		p.errorf("unexpected header %v", rows[0])
		return p
	}
	if len(rows)-1 > 5 {
		p.errorf("table has %d rows, expected at most 5", len(rows)-1)
	}

	known := make(map[string]bool)
	for _, post := range a.located {
		for _, loc := range post.Locations {
			known[strings.ToLower(loc)] = true
		}
	}

	prev := -1
	for i, row := range rows[1:] {
		if len(row) != 2 {
			p.errorf("row %d: expected 2 fields, got %d", i+1, len(row))
			continue
		}
		count, err := strconv.Atoi(row[1])
		if err != nil || count <= 0 {
			p.errorf("row %d: invalid count %q", i+1, row[1])
			continue
		}
		if prev >= 0 && count > prev {
			p.errorf("row %d: counts not descending (%d after %d)", i+1, count, prev)
		}
		prev = count
		if !known[strings.ToLower(row[0])] {
			p.errorf("row %d: location %q not present in any record", i+1, row[0])
		}
	}

	if !a.have[config.HeatmapPage] {
		p.errorf("%s missing alongside %s", config.HeatmapPage, config.TopLocationsTable)
	} else if !bytes.Contains(a.heatmap, []byte("L.heatLayer")) {
		p.errorf("%s does not contain a heat layer", config.HeatmapPage)
	}
	return p
}
