package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/forensint/celltrace/internal/extractor"
)

// sniffLimit bounds how much of an XML file classification reads. Report
// documents declare their model types near the top; reading whole files
// would make classification scale with archive size instead of file count.
const sniffLimit = 50 * 1024

// Classified lists the archive files relevant to ingestion. At most one
// document per record type is kept; when several files declare the same
// model type, the last one seen in walk order wins. A file holding
// several model types fills every matching slot. Paths are absolute.
type Classified struct {
	ContactFile  string
	PasswordFile string
	AccountFile  string
	ImageFiles   []string
}

var modelTypePatterns = map[string]*regexp.Regexp{
	extractor.ModelTypeContact:     modelTypePattern(extractor.ModelTypeContact),
	extractor.ModelTypePassword:    modelTypePattern(extractor.ModelTypePassword),
	extractor.ModelTypeUserAccount: modelTypePattern(extractor.ModelTypeUserAccount),
}

func modelTypePattern(modelType string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<model\s+[^>]*type=["']` + modelType + `["']`)
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Classify walks the unpacked archive rooted at root and sniffs every XML
// file's head for the model types it declares. Unreadable files fail the
// walk; a half-classified archive would silently drop evidence.
func Classify(root string) (*Classified, error) {
	classified := &Classified{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if imageExtensions[ext] {
			classified.ImageFiles = append(classified.ImageFiles, path)
			return nil
		}
		if ext != ".xml" {
			return nil
		}

		head, err := readHead(path, sniffLimit)
		if err != nil {
			return fmt.Errorf("failed to sniff %s: %w", path, err)
		}
		if modelTypePatterns[extractor.ModelTypeContact].Match(head) {
			classified.ContactFile = path
		}
		if modelTypePatterns[extractor.ModelTypePassword].Match(head) {
			classified.PasswordFile = path
		}
		if modelTypePatterns[extractor.ModelTypeUserAccount].Match(head) {
			classified.AccountFile = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify archive contents: %w", err)
	}
	return classified, nil
}

// OwnerPhone scans directory and file names under root for an embedded
// device-owner WhatsApp JID and returns the owner's phone, or "".
func OwnerPhone(root string) string {
	owner := ""
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if phone := extractor.OwnerPhoneFromFolderName(d.Name()); phone != "" {
			owner = phone
			return filepath.SkipAll
		}
		return nil
	})
	return owner
}

func readHead(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, n))
	if err != nil {
		return nil, err
	}
	return head, nil
}
