package listing

import (
	"regexp"
	"strings"

	"github.com/happyhackingspace/stayprice/internal/textutil"
)

// Image quality tiers reported as estimated_image_quality.
const (
	ImageQualityUnknown  = "unknown"
	ImageQualityOriginal = "original"
	ImageQualityLarge    = "large"
	ImageQualityMedium   = "medium"
	ImageQualityStandard = "standard"
)

// NoExtension is the file_extension value when none is found.
const NoExtension = "none"

var (
	imageIDRe   = regexp.MustCompile(`/([a-f0-9]{8,}|[0-9]{8,})[/_]`)
	extensionRe = regexp.MustCompile(`\.([a-zA-Z]{3,4})(?:\?|$)`)
)

// URLFeatures extracts the picture URL feature group. A blank URL is treated
// as no picture.
func URLFeatures(url string) Features {
	if strings.TrimSpace(url) == "" {
		return Features{
			"has_picture":             false,
			"url_length":              0,
			"is_muscache":             false,
			"image_id_length":         0,
			"is_original":             false,
			"file_extension":          NoExtension,
			"url_has_size_param":      false,
			"url_path_segments":       0,
			"estimated_image_quality": ImageQualityUnknown,
			"url_complexity_score":    0.0,
		}
	}

	lower := strings.ToLower(url)
	muscache := strings.Contains(lower, "muscache.com")
	original := strings.Contains(lower, "_original")

	idLen := 0
	if m := imageIDRe.FindStringSubmatch(url); m != nil {
		idLen = len(m[1])
	}
	ext := NoExtension
	if m := extensionRe.FindStringSubmatch(url); m != nil {
		ext = strings.ToLower(m[1])
	}
	segments := 0
	for _, s := range strings.Split(url, "/") {
		if s != "" {
			segments++
		}
	}

	quality := ImageQualityStandard
	switch {
	case strings.Contains(url, "_original"):
		quality = ImageQualityOriginal
	case textutil.ContainsAny(url, urlLargeMarkers):
		quality = ImageQualityLarge
	case textutil.ContainsAny(url, urlMediumMarkers):
		quality = ImageQualityMedium
	}

	complexity := 0.5*float64(segments) + 0.2*float64(idLen)
	if muscache {
		complexity += 2
	}
	if original {
		complexity += 3
	}

	return Features{
		"has_picture":             true,
		"url_length":              textutil.RuneLen(url),
		"is_muscache":             muscache,
		"image_id_length":         idLen,
		"is_original":             original,
		"file_extension":          ext,
		"url_has_size_param":      textutil.ContainsAny(url, urlSizeParams),
		"url_path_segments":       segments,
		"estimated_image_quality": quality,
		"url_complexity_score":    complexity,
	}
}
