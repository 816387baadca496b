// Package archive unpacks extraction archives and classifies their
// contents.
//
// An extraction archive is a ZIP holding one or more report XML documents
// plus extracted media files. File names inside the archive carry no
// reliable meaning, so classification sniffs content: the head of each XML
// file is matched against the model type declarations it contains, and a
// single file may well hold several record kinds.
//
// The package also builds a photo index over the archive's images. Image
// file names in extraction archives usually embed the phone number of the
// person they belong to, which lets contacts be matched to their photos by
// digit comparison tolerant of country-code prefixes.
package archive
