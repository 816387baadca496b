package extractor

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// ExtractPhotoEXIF pulls the EXIF tags out of an image file's bytes as a
// flat name-to-value map. Extraction archives strip most camera metadata,
// but profile photos occasionally retain capture time or GPS tags that are
// investigatively relevant.
//
// Returns nil when the image carries no EXIF block or the block cannot be
// parsed. Photo metadata is opportunistic; a broken block never fails an
// ingestion.
func ExtractPhotoEXIF(data []byte) map[string]string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return nil
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil || len(tags) == 0 {
		return nil
	}

	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.TagName == "" || tag.FormattedFirst == "" {
			continue
		}
		// First writer wins; IFD duplicates carry the same value anyway.
		if _, ok := out[tag.TagName]; !ok {
			out[tag.TagName] = tag.FormattedFirst
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
