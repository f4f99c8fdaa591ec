// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softrender

import (
	"slices"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Classes are the view classes known to the engine.
// Unknown classes are rendered as plain views with a warning.
var Classes = []string{
	"View", "TextView", "Button", "ImageView", "EditText", "CheckBox",
	"Switch", "ProgressBar", "Space", "LinearLayout", "FrameLayout",
	"ScrollView", "RecyclerView",
}

// minSuggestionSimilarity is the smallest similarity for which a known
// class is suggested in place of an unknown one.
const minSuggestionSimilarity = 0.6

func knownClass(class string) bool {
	return slices.Contains(Classes, class)
}

// suggestClass returns the known class most similar to the given one,
// or "" if none is similar enough.
func suggestClass(class string) string {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	best, bestSim := "", 0.0
	for _, c := range Classes {
		if sim := strutil.Similarity(class, c, lev); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	if bestSim < minSuggestionSimilarity {
		return ""
	}
	return best
}
