package analysis

import (
	"sort"
)

// DefaultTopN is the ranked list length used by every report
const DefaultTopN = 10

// FrequencyMap counts feature occurrences and remembers the order in which
// each feature was first seen.
type FrequencyMap struct {
	counts map[string]int
	seq    map[string]int
	order  []string
}

// NewFrequencyMap creates an empty frequency map
func NewFrequencyMap() *FrequencyMap {
	return &FrequencyMap{
		counts: make(map[string]int),
		seq:    make(map[string]int),
	}
}

// Add increments the count of feature, recording its sequence index on first insert
func (m *FrequencyMap) Add(feature string) {
	if _, ok := m.seq[feature]; !ok {
		m.seq[feature] = len(m.order)
		m.order = append(m.order, feature)
	}
	m.counts[feature]++
}

// Count returns the occurrences of feature
func (m *FrequencyMap) Count(feature string) int {
	return m.counts[feature]
}

// Len returns the number of distinct features
func (m *FrequencyMap) Len() int {
	return len(m.order)
}

// Total returns the sum of all counts
func (m *FrequencyMap) Total() int {
	total := 0
	for _, c := range m.counts {
		total += c
	}
	return total
}

// Entries returns every feature in first-occurrence order
func (m *FrequencyMap) Entries() []Entry {
	entries := make([]Entry, len(m.order))
	for i, feature := range m.order {
		entries[i] = Entry{Feature: feature, Count: m.counts[feature]}
	}
	return entries
}

// Entry is a (feature, count) pair
type Entry struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// RankedList is an ordered top-N view of a FrequencyMap
type RankedList []Entry

// Rank sorts by descending count, breaking ties by first occurrence, and
// keeps at most n entries.
func Rank(m *FrequencyMap, n int) RankedList {
	entries := m.Entries()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return m.seq[entries[i].Feature] < m.seq[entries[j].Feature]
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return RankedList(entries)
}

// Features returns the feature strings of the list in order
func (l RankedList) Features() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Feature
	}
	return out
}

// Counts returns the counts of the list in order
func (l RankedList) Counts() []float64 {
	out := make([]float64, len(l))
	for i, e := range l {
		out[i] = float64(e.Count)
	}
	return out
}
