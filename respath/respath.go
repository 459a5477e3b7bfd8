// Package respath parses resource path strings — "name.type#tag1#tag2"
// — into their hashed, sorted-tag-glob components (§4.5). Parsing is a
// single linear scan; invalid paths return an error rather than
// panicking, since a malformed path can originate from hand-edited
// config or a stale archive rather than a programmer mistake.
package respath

import (
	"fmt"
	"sort"

	"github.com/phanxgames/kiln/hash"
)

const maxTags = 8

// Path is the parsed, hashed form of a resource path.
type Path struct {
	TypeHash hash.Value32
	NameHash hash.Value64
	TagGlob  hash.Value64
	Type     string
	Name     string
	Tags     []string
}

// Parse splits raw ("name.type#tag#tag...") into its name, type, and
// tag segments, validating and hashing as it goes (§4.5):
//   - exactly one '.', separating name from type; a '#' encountered
//     before it is an error (a tag separator before the type
//     separator);
//   - each subsequent '#' ends a tag segment;
//   - name and type must both be non-empty;
//   - no more than maxTags tags, and tags must be unique by hash.
//
// Tags are sorted by hash and folded into TagGlob before returning.
func Parse(raw string) (Path, error) {
	var name, typ string
	var tags []string

	dotSeen := false
	segStart := 0

	flushTag := func(end int) error {
		if end == segStart {
			return fmt.Errorf("respath: %q: empty tag", raw)
		}
		if len(tags) >= maxTags {
			return fmt.Errorf("respath: %q: more than %d tags", raw, maxTags)
		}
		tags = append(tags, raw[segStart:end])
		return nil
	}

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '.':
			if dotSeen {
				return Path{}, fmt.Errorf("respath: %q: more than one '.' separator", raw)
			}
			name = raw[segStart:i]
			dotSeen = true
			segStart = i + 1
		case '#':
			if !dotSeen {
				return Path{}, fmt.Errorf("respath: %q: tag separator '#' before type separator '.'", raw)
			}
			if typ == "" {
				typ = raw[segStart:i]
			} else {
				if err := flushTag(i); err != nil {
					return Path{}, err
				}
			}
			segStart = i + 1
		}
	}
	// final segment: either the type (no tags) or the last tag
	if !dotSeen {
		return Path{}, fmt.Errorf("respath: %q: missing '.' separator", raw)
	}
	if typ == "" {
		typ = raw[segStart:]
	} else {
		if err := flushTag(len(raw)); err != nil {
			return Path{}, err
		}
	}

	if name == "" {
		return Path{}, fmt.Errorf("respath: %q: empty name", raw)
	}
	if typ == "" {
		return Path{}, fmt.Errorf("respath: %q: empty type", raw)
	}

	tagHashes := make([]hash.Value32, len(tags))
	seen := make(map[hash.Value32]bool, len(tags))
	for i, tag := range tags {
		h := hash.Calc32(tag)
		if seen[h] {
			return Path{}, fmt.Errorf("respath: %q: duplicate tag %q", raw, tag)
		}
		seen[h] = true
		tagHashes[i] = h
	}

	sort.Slice(tagHashes, func(i, j int) bool { return tagHashes[i] < tagHashes[j] })
	sortedTags := make([]string, len(tags))
	copy(sortedTags, tags)
	sort.Slice(sortedTags, func(i, j int) bool { return hash.Calc32(sortedTags[i]) < hash.Calc32(sortedTags[j]) })

	return Path{
		TypeHash: hash.Calc32(typ),
		NameHash: hash.Calc64(name),
		TagGlob:  hash.Combine64(tagHashes),
		Type:     typ,
		Name:     name,
		Tags:     sortedTags,
	}, nil
}
