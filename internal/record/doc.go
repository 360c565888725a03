// Package record is the structured-record front end. It turns one e621 post
// record (JSON) into a caption: tags are filtered and normalized per
// category, substituted into a template together with the converted rating,
// cleaned up and written next to the input as <url stem>.txt.
//
// It also converts tag-probability JSON files produced by taggers into
// plain tag captions.
package record
