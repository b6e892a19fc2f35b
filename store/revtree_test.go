// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRev_Format(t *testing.T) {
	first := NewRev("")
	gen, suffix, found := strings.Cut(first, "-")
	require.True(t, found)
	assert.Equal(t, "1", gen)
	assert.Len(t, suffix, 32, "suffix is a uuid with the dashes stripped")

	second := NewRev(first)
	assert.Equal(t, 2, Generation(second))
	assert.NotEqual(t, first, second)
}

func TestGeneration(t *testing.T) {
	tests := []struct {
		rev  string
		want int
	}{
		{"", 0},
		{"1-abc", 1},
		{"17-ffff", 17},
		{"garbage", 0},
		{"x-abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Generation(tt.rev), tt.rev)
	}
}

func TestRevLess_GenerationMajor(t *testing.T) {
	assert.True(t, revLess("1-ffff", "2-0000"), "generation beats string order")
	assert.False(t, revLess("2-0000", "1-ffff"))
	assert.True(t, revLess("2-aaaa", "2-bbbb"), "same generation falls back to string order")
	assert.False(t, revLess("2-bbbb", "2-aaaa"))
}

func TestBranch_Extend(t *testing.T) {
	var root *branch
	first := root.extend(map[string]any{"v": 1}, false)
	assert.Equal(t, 1, Generation(first.Rev))
	assert.Equal(t, []string{first.Rev}, first.History)

	second := first.extend(map[string]any{"v": 2}, false)
	assert.Equal(t, 2, Generation(second.Rev))
	assert.Equal(t, []string{second.Rev, first.Rev}, second.History, "history is newest first")
	assert.True(t, second.contains(first.Rev))
	assert.False(t, first.contains(second.Rev))
}

func TestWinner_IgnoresTombstones(t *testing.T) {
	branches := map[string]*branch{
		"2-aaaa": {Rev: "2-aaaa"},
		"3-ffff": {Rev: "3-ffff", Deleted: true},
		"2-bbbb": {Rev: "2-bbbb"},
	}
	w := winner(branches)
	require.NotNil(t, w)
	assert.Equal(t, "2-bbbb", w.Rev, "the deleted branch never wins, ties break on the token")

	assert.Equal(t, []string{"2-aaaa"}, conflictRevs(branches, w))

	assert.Nil(t, winner(map[string]*branch{"1-x": {Rev: "1-x", Deleted: true}}))
}

func TestConflictRevs_StrongestFirst(t *testing.T) {
	current := &branch{Rev: "4-zzzz"}
	branches := map[string]*branch{
		"4-zzzz": current,
		"2-aaaa": {Rev: "2-aaaa"},
		"3-cccc": {Rev: "3-cccc"},
		"3-dddd": {Rev: "3-dddd"},
	}
	assert.Equal(t, []string{"3-dddd", "3-cccc", "2-aaaa"}, conflictRevs(branches, current))
}

func TestClassify(t *testing.T) {
	local := &branch{Rev: "2-bbbb", History: []string{"2-bbbb", "1-aaaa"}}
	branches := map[string]*branch{"2-bbbb": local}

	fate, target := classify(branches, Row{Rev: "2-bbbb"})
	assert.Equal(t, replicaKnown, fate)
	assert.Same(t, local, target)

	fate, target = classify(branches, Row{Rev: "1-aaaa"})
	assert.Equal(t, replicaStale, fate)
	assert.Same(t, local, target)

	fate, target = classify(branches, Row{Rev: "3-cccc", History: []string{"3-cccc", "2-bbbb", "1-aaaa"}})
	assert.Equal(t, replicaFastForward, fate)
	assert.Same(t, local, target)

	fate, target = classify(branches, Row{Rev: "2-ffff", History: []string{"2-ffff", "1-9999"}})
	assert.Equal(t, replicaFork, fate)
	assert.Nil(t, target)

	fate, target = classify(nil, Row{Rev: "1-aaaa", History: []string{"1-aaaa"}})
	assert.Equal(t, replicaFork, fate, "a document unknown locally starts as a fresh branch")
	assert.Nil(t, target)
}
