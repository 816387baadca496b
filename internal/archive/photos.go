package archive

import (
	"path/filepath"
	"strings"

	"github.com/forensint/celltrace/internal/model"
)

// countryPrefixes are the calling codes tried when matching image names to
// phone numbers. Extraction tools name contact photos with either the
// local or the international form of the number.
var countryPrefixes = []string{"40", "1", "44", "33"}

// minPhotoDigits guards against matching short numeric fragments in image
// names (counters, timestamps) to phone numbers.
const minPhotoDigits = 6

// PhotoIndex maps the digit content of image file names to image paths.
type PhotoIndex struct {
	byDigits map[string]string
	files    []string
}

// NewPhotoIndex indexes the given image paths by the digits embedded in
// their base names. When several images share a digit stem the first in
// input order wins.
func NewPhotoIndex(imageFiles []string) *PhotoIndex {
	idx := &PhotoIndex{
		byDigits: make(map[string]string, len(imageFiles)),
		files:    imageFiles,
	}
	for _, path := range imageFiles {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		digits := model.DigitsOnly(stem)
		if len(digits) < minPhotoDigits {
			continue
		}
		if _, ok := idx.byDigits[digits]; !ok {
			idx.byDigits[digits] = path
		}
	}
	return idx
}

// MatchPhone returns the path of the image whose name carries this phone
// number, or "". The lookup tries the number as-is, then every country
// prefix swapped for the local leading zero in both directions, so
// "0722123456" finds an image named "40722123456.jpg" and vice versa.
func (idx *PhotoIndex) MatchPhone(phone string) string {
	digits := model.DigitsOnly(phone)
	if len(digits) < minPhotoDigits {
		return ""
	}
	for _, candidate := range phoneDigitCandidates(digits) {
		if path, ok := idx.byDigits[candidate]; ok {
			return path
		}
	}
	return ""
}

func phoneDigitCandidates(digits string) []string {
	candidates := []string{digits}
	if strings.HasPrefix(digits, "0") {
		for _, cc := range countryPrefixes {
			candidates = append(candidates, cc+digits[1:])
		}
		return candidates
	}
	for _, cc := range countryPrefixes {
		if strings.HasPrefix(digits, cc) && len(digits) > len(cc) {
			candidates = append(candidates, "0"+digits[len(cc):])
		}
	}
	return candidates
}

// ProfileImage returns the archive image most likely to be the device
// owner's own profile photo, or "". Three strategies run in order of
// confidence: a me.jpg inside a UserAccounts folder, any me.jpg, then any
// UserAccounts image whose name mentions "me" or "profile".
func (idx *PhotoIndex) ProfileImage() string {
	for _, path := range idx.files {
		if isMeJPEG(path) && underUserAccounts(path) {
			return path
		}
	}
	for _, path := range idx.files {
		if isMeJPEG(path) {
			return path
		}
	}
	for _, path := range idx.files {
		if !underUserAccounts(path) {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if strings.Contains(stem, "me") || strings.Contains(stem, "profile") {
			return path
		}
	}
	return ""
}

func isMeJPEG(path string) bool {
	return strings.EqualFold(filepath.Base(path), "me.jpg")
}

func underUserAccounts(path string) bool {
	return strings.Contains(strings.ToLower(path), "useraccounts")
}
