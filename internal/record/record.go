package record

import (
	"encoding/json"
	"errors"
	"net/url"
	"path"
	"strings"
)

// ErrMalformed marks a record without a usable post.file.url. Processing
// such a record is a silent no-op.
var ErrMalformed = errors.New("record has no post.file.url")

// DefaultRating is used when post.rating is absent.
const DefaultRating = "q"

// Record is a parsed e621 post. Fields are decoded leniently: values of the
// wrong JSON type are treated as absent.
type Record struct {
	URL    string
	Rating string
	// Tags maps category name to its string tags. Nil when post.tags is
	// absent or not an object.
	Tags map[string][]string
}

type rawRecord struct {
	Post *struct {
		File *struct {
			URL json.RawMessage `json:"url"`
		} `json:"file"`
		Rating json.RawMessage `json:"rating"`
		Tags   json.RawMessage `json:"tags"`
	} `json:"post"`
}

// Parse decodes data into a Record. It fails only on invalid JSON or a
// missing post.file.url (ErrMalformed); unknown fields are ignored.
func Parse(data []byte) (*Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Post == nil || raw.Post.File == nil {
		return nil, ErrMalformed
	}
	u, ok := asString(raw.Post.File.URL)
	if !ok {
		return nil, ErrMalformed
	}

	r := &Record{URL: u, Rating: DefaultRating}
	if rating, ok := asString(raw.Post.Rating); ok {
		r.Rating = rating
	}
	r.Tags = parseTags(raw.Post.Tags)
	return r, nil
}

func parseTags(data json.RawMessage) map[string][]string {
	if len(data) == 0 {
		return nil
	}
	var cats map[string]json.RawMessage
	if err := json.Unmarshal(data, &cats); err != nil || cats == nil {
		return nil
	}
	out := make(map[string][]string, len(cats))
	for name, v := range cats {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			continue
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := asString(item); ok {
				tags = append(tags, s)
			}
		}
		out[name] = tags
	}
	return out
}

// asString decodes v when it holds a JSON string.
func asString(v json.RawMessage) (string, bool) {
	if len(v) == 0 || v[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// Stem returns the last path segment of the record URL without its
// extension: "https://x/data/ab/cd/abcd.png" gives "abcd". The segment is
// taken as written, so percent escapes are kept.
func (r *Record) Stem() string {
	p := r.URL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if u, err := url.Parse(r.URL); err == nil && u.Host != "" {
		rest := p[strings.Index(p, "//")+2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			p = rest[i:]
		} else {
			p = ""
		}
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
