package main

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dgnsrekt/readaloud/library"
)

// resolveItem finds a library item by full ID, unique ID prefix, or fuzzy
// title match, in that order.
func resolveItem(store *library.Store, arg string) (*library.IndexEntry, error) {
	entries, err := store.List()
	if err != nil {
		return nil, err
	}

	var prefixMatches []*library.IndexEntry
	for i := range entries {
		if entries[i].ID == arg {
			return &entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, arg) {
			prefixMatches = append(prefixMatches, &entries[i])
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0], nil
	}
	if len(prefixMatches) > 1 {
		return nil, fmt.Errorf("ambiguous ID prefix %q matches %d items", arg, len(prefixMatches))
	}

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	if matches := fuzzy.Find(arg, titles); len(matches) > 0 {
		return &entries[matches[0].Index], nil
	}

	return nil, fmt.Errorf("no library item matches %q", arg)
}
