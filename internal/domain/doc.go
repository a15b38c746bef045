// Package domain models crisis-related social media posts collected from Reddit.
//
// # Data Source
//
// Posts come from the hot listings of a configurable set of mental-health and
// substance-use subreddits, fetched through Reddit's OAuth2 application-only
// flow (https://www.reddit.com/dev/api/). The collector keeps only posts whose
// title or body mentions a watchlist keyword, then the later stages annotate
// each record in place. Listing fields map onto [Post] as:
//
//	id             → post_id
//	subreddit      → subreddit, prefixed "r/"
//	title+selftext → content, joined with a single space
//	created_utc    → timestamp (epoch seconds → UTC)
//	score          → likes
//	num_comments   → comments
//	num_crossposts → shares
//
// # Content Conventions
//
// Collected content is casefolded at ingestion, so all downstream matching is
// lowercase. [CleanContent] then strips markup, emoji, and punctuation
// (everything outside letters, digits, and whitespace), removes English
// stopwords, and collapses runs of whitespace to single spaces. The transform
// is idempotent: cleaned content passes through unchanged.
//
// Timestamps use the "2006-01-02 15:04:05" layout in UTC with no zone suffix.
// See [Timestamp].
//
// # Sentiment and Risk
//
// Sentiment is the sign of the VADER compound polarity score:
//
//	compound > 0  → positive
//	compound < 0  → negative
//	otherwise     → neutral
//
// Risk is a three-level ladder evaluated in order:
//
//	high    a crisis phrase occurs in the content
//	medium  the post's summed TF-IDF weight over the high-risk term set
//	        exceeds the configured threshold (default 0)
//	low     everything else
//
// Crisis phrases are normalized through [CleanContent] before matching so
// they live in the same text domain as cleaned content. The high-risk term
// set is the top vocabulary terms by total TF-IDF weight across the corpus.
//
// # Place Extraction
//
// Locations are named-entity GPE spans plus gazetteer matches for well-known
// place names and abbreviations (nyc → New York City). Matching is
// case-insensitive, duplicates keep first-seen order, and a small unwanted
// word list drops false positives such as drug slang tagged as places.
// Each extracted place is forward-geocoded via [Geocoder]; places the
// provider cannot resolve are dropped from the record so locations[i] always
// aligns with coordinates[i].
package domain
