package image

import (
	"Copywriter/internal/outcome"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind selects how an image is attached to generated copy.
type Kind string

const (
	KindRandom Kind = "random"
	KindWeb    Kind = "web"
	KindNone   Kind = "none"
)

const (
	DefaultBaseURL = "https://picsum.photos"
	// FallbackURL is returned when a seeded URL cannot be built.
	FallbackURL = "https://picsum.photos/800/600"

	width  = 800
	height = 600

	searchSeedLen    = 20
	keywordSeedLen   = 30
	searchTermRunes  = 50
	webImageCount    = 8
	fallbackImageCnt = 4
)

// ParseKind maps user input to a Kind. Empty and unknown values mean KindRandom.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindWeb:
		return KindWeb
	case KindNone:
		return KindNone
	default:
		return KindRandom
	}
}

// Resolver builds placeholder image URLs on a photo-by-seed service.
// No request is made, the URLs are only constructed.
type Resolver struct {
	baseURL string
	logger  *zap.SugaredLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewResolver creates a resolver. A nil rnd uses the global source.
func NewResolver(baseURL string, rnd *rand.Rand, logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/"), rnd: rnd, logger: logger}
}

func (r *Resolver) intN(n int) int {
	if r.rnd == nil {
		return rand.IntN(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(n)
}

// Resolve returns an image URL for text according to kind. It never fails:
// KindNone yields an empty string, construction errors yield FallbackURL.
func (r *Resolver) Resolve(kind Kind, text string) outcome.Result[string] {
	switch kind {
	case KindNone:
		r.logger.Infow("No-image mode, skipping image")
		return outcome.OK("")
	case KindWeb:
		return r.Search(text)
	default:
		return r.Random()
	}
}

// Random returns a placeholder seeded with a random number in [0,10000).
func (r *Resolver) Random() outcome.Result[string] {
	r.logger.Infow("Picking random image")
	u, err := r.seededURL("random" + strconv.Itoa(r.intN(10000)))
	if err != nil {
		return r.fallback(err)
	}
	r.logger.Infow("Random image ready", "url", u)
	return outcome.OK(u)
}

// Search derives a search term from text and turns it into a seeded placeholder.
// It does not query any search engine.
func (r *Resolver) Search(text string) outcome.Result[string] {
	r.logger.Infow("Searching image", "query", truncateRunes(text, 30))
	term := searchTerm(text)
	seed := truncateEscaped(escapeComponent(term), searchSeedLen) + strconv.Itoa(r.intN(1000))
	u, err := r.seededURL(seed)
	if err != nil {
		return r.fallback(err)
	}
	r.logger.Infow("Image found", "url", u)
	return outcome.OK(u)
}

// SearchWeb returns eight placeholder URLs seeded by the joined keywords.
// On failure four generic placeholders are returned instead.
func (r *Resolver) SearchWeb(keywords []string) outcome.Result[[]string] {
	joined := strings.Join(keywords, " ")
	r.logger.Infow("Searching web images", "keywords", joined)

	urls := make([]string, 0, webImageCount)
	for i := range webImageCount {
		seed := truncateEscaped(escapeComponent(joined+strconv.Itoa(i)), keywordSeedLen) + strconv.Itoa(r.intN(1000)+i)
		u, err := r.seededURL(seed)
		if err != nil {
			r.logger.Errorw("Web image search failed", "error", err)
			fallback := make([]string, 0, fallbackImageCnt)
			for j := range fallbackImageCnt {
				fallback = append(fallback, FallbackURL+"?random="+strconv.Itoa(j))
			}
			r.logger.Warnw("Using default images", "count", len(fallback))
			return outcome.Fallback(fallback, err)
		}
		urls = append(urls, u)
	}

	r.logger.Infow("Web images ready", "count", len(urls))
	return outcome.OK(urls)
}

func (r *Resolver) fallback(err error) outcome.Result[string] {
	r.logger.Errorw("Image search failed", "error", err)
	r.logger.Warnw("Using default image", "url", FallbackURL)
	return outcome.Fallback(FallbackURL, err)
}

func (r *Resolver) seededURL(seed string) (string, error) {
	raw := fmt.Sprintf("%s/seed/%s/%d/%d", r.baseURL, seed, width, height)
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("image: invalid placeholder base URL %q", r.baseURL)
	}
	return raw, nil
}

// searchTerm is the first line of text, or its first 50 runes when that line is blank.
func searchTerm(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return truncateRunes(text, searchTermRunes)
}

// componentUnescaper restores the characters url.QueryEscape encodes
// but encodeURIComponent leaves as is.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s the way encodeURIComponent does.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// truncateEscaped cuts an escaped string to at most n bytes without splitting a %XX triple.
func truncateEscaped(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	if i := strings.LastIndexByte(s[:n], '%'); i >= 0 && i+3 > n {
		cut = i
	}
	return s[:cut]
}

func truncateRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
