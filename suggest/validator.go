package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tutorchat/tutorchat/types"
)

// Thumbnail probe defaults.
const (
	// DefaultProbeBaseURL is the hosting platform's per-video thumbnail root.
	DefaultProbeBaseURL = "https://img.youtube.com/vi"

	// DefaultMinThumbnailBytes separates a real thumbnail from the host's
	// placeholder-for-missing-content image (roughly 1 kB).
	DefaultMinThumbnailBytes = 1500
)

// defaultVariants is the ordered list of thumbnail resources tried during
// the existence probe. The first one that responds successfully and exceeds
// the size threshold confirms existence.
var defaultVariants = []string{"mqdefault.jpg", "hqdefault.jpg", "default.jpg"}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the video identifier from a watch-page or short-link URL.
// It reports false for any URL that does not match a known hosting pattern.
func VideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var id string
	switch host {
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	}

	id = strings.TrimSuffix(id, "/")
	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// ThumbnailURL returns the representative thumbnail location for a video
// identifier, used by the renderer for the resources section.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("%s/%s/mqdefault.jpg", DefaultProbeBaseURL, videoID)
}

// ValidatorConfig holds Validator configuration.
type ValidatorConfig struct {
	// ProbeBaseURL overrides the thumbnail root (useful for tests).
	ProbeBaseURL string

	// MinThumbnailBytes overrides the placeholder-size threshold.
	MinThumbnailBytes int64

	// Variants overrides the ordered thumbnail variant list.
	Variants []string

	// HTTPClient overrides the HTTP client. Default: 10s timeout client.
	HTTPClient *http.Client
}

// Validator confirms that an extracted suggestion plausibly points at a
// real video.
//
// The existence probe is a best-effort heuristic: it treats a
// placeholder-sized thumbnail as proof of absence, which can misclassify
// very new or low-traffic videos that the host has not rendered thumbnails
// for yet. That trade-off is accepted; validation only gates the
// recommendation section, never the narrative.
type Validator struct {
	probeBase string
	minBytes  int64
	variants  []string
	client    *http.Client
}

// NewValidator creates a Validator, applying defaults for zero-valued
// config fields.
func NewValidator(cfg *ValidatorConfig) *Validator {
	if cfg == nil {
		cfg = &ValidatorConfig{}
	}
	v := &Validator{
		probeBase: cfg.ProbeBaseURL,
		minBytes:  cfg.MinThumbnailBytes,
		variants:  cfg.Variants,
		client:    cfg.HTTPClient,
	}
	if v.probeBase == "" {
		v.probeBase = DefaultProbeBaseURL
	}
	if v.minBytes == 0 {
		v.minBytes = DefaultMinThumbnailBytes
	}
	if len(v.variants) == 0 {
		v.variants = defaultVariants
	}
	if v.client == nil {
		v.client = &http.Client{Timeout: 10 * time.Second}
	}
	return v
}

// Validate resolves one suggestion. A URL that fails the structural check
// is rejected without any network call; otherwise the thumbnail variants
// are probed once each, in order, and the first success above the size
// threshold confirms. Network failures reject rather than retry.
func (v *Validator) Validate(ctx context.Context, s *types.VideoSuggestion) types.Validation {
	id, ok := VideoID(s.URL)
	if !ok {
		return types.ValidationRejected
	}

	for _, variant := range v.variants {
		if v.probe(ctx, id, variant) {
			return types.ValidationConfirmed
		}
	}
	return types.ValidationRejected
}

// probe fetches one thumbnail variant and reports whether it looks like a
// real (non-placeholder) image.
func (v *Validator) probe(ctx context.Context, videoID, variant string) bool {
	probeURL := fmt.Sprintf("%s/%s/%s", v.probeBase, videoID, variant)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	// Content-Length is usually present; fall back to counting the body.
	size := resp.ContentLength
	if size < 0 {
		size, err = io.Copy(io.Discard, io.LimitReader(resp.Body, v.minBytes+1))
		if err != nil {
			return false
		}
	}
	return size > v.minBytes
}
