// Package conflicts finds overlapping sessions at the same facility and
// resolves them by keeping the highest-value session in each cluster.
package conflicts

import (
	"sort"

	"github.com/swimto/poolsync/pkg/sessions"
)

// Conflict is a pair of sessions at the same facility on the same date
// whose time ranges overlap.
type Conflict struct {
	FacilityID string           `json:"facility_id"`
	Date       sessions.Date    `json:"date"`
	First      sessions.Session `json:"first"`
	Second     sessions.Session `json:"second"`
}

type groupKey struct {
	facilityID string
	date       sessions.Date
}

func groupByFacilityDate(list []sessions.Session) map[groupKey][]sessions.Session {
	groups := make(map[groupKey][]sessions.Session)
	for _, s := range list {
		// Unmatched sessions have no physical pool to collide in.
		if !s.Matched() {
			continue
		}
		key := groupKey{facilityID: s.FacilityID, date: s.Date}
		groups[key] = append(groups[key], s)
	}
	return groups
}

// Detect returns every overlapping pair, grouped by facility and date.
// Sessions without a matched facility never conflict. Pairs within a
// group are ordered by start time, earlier session first.
func Detect(list []sessions.Session) []Conflict {
	groups := groupByFacilityDate(list)

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].facilityID != keys[j].facilityID {
			return keys[i].facilityID < keys[j].facilityID
		}
		return keys[i].date.Before(keys[j].date)
	})

	var out []Conflict
	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Start != group[j].Start {
				return group[i].Start < group[j].Start
			}
			return group[i].ContentHash < group[j].ContentHash
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				// Sorted by start, so the first non-overlap ends the
				// inner scan for a fixed i only when ends are ordered
				// too; ranges can nest, so scan the whole tail.
				if group[i].Overlaps(&group[j]) {
					out = append(out, Conflict{
						FacilityID: key.facilityID,
						Date:       key.date,
						First:      group[i],
						Second:     group[j],
					})
				}
			}
		}
	}
	return out
}

// Optimize filters the input down to a conflict-free subset, preferring
// higher-priority swim types, then longer sessions, then earlier starts.
// Unmatched sessions always survive. The result preserves the input
// order of the surviving sessions, and the operation is idempotent: a
// conflict-free input comes back unchanged.
func Optimize(list []sessions.Session) []sessions.Session {
	// Survivors are tracked by input index, not content hash: hashes
	// exclude the end time, so duplicates differing only in end would
	// otherwise share a key and all survive.
	groups := make(map[groupKey][]int)
	for i, s := range list {
		if !s.Matched() {
			continue
		}
		key := groupKey{facilityID: s.FacilityID, date: s.Date}
		groups[key] = append(groups[key], i)
	}

	keep := make(map[int]bool, len(list))
	for _, group := range groups {
		ranked := make([]int, len(group))
		copy(ranked, group)
		sort.SliceStable(ranked, func(i, j int) bool {
			a, b := list[ranked[i]], list[ranked[j]]
			if pa, pb := a.SwimType.Priority(), b.SwimType.Priority(); pa != pb {
				return pa > pb
			}
			if da, db := a.Duration(), b.Duration(); da != db {
				return da > db
			}
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return a.ContentHash < b.ContentHash
		})

		var taken []int
		for _, cand := range ranked {
			clear := true
			for _, t := range taken {
				if list[cand].Overlaps(&list[t]) {
					clear = false
					break
				}
			}
			if clear {
				taken = append(taken, cand)
				keep[cand] = true
			}
		}
	}

	out := make([]sessions.Session, 0, len(list))
	for i, s := range list {
		if !s.Matched() || keep[i] {
			out = append(out, s)
		}
	}
	return out
}
