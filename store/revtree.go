// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Revision tokens have the form "<generation>-<hex suffix>". The generation
// counts edits along a branch; the suffix makes concurrent edits of the same
// generation distinct. Both reference stores pick winners deterministically
// from the token alone so that disconnected peers agree without negotiation.

// NewRev mints the revision token following parent ("" for a first edit).
func NewRev(parent string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s", Generation(parent)+1, suffix)
}

// Generation extracts the numeric generation of a revision token; 0 for "".
func Generation(rev string) int {
	genPart, _, found := strings.Cut(rev, "-")
	if !found {
		return 0
	}
	gen, err := strconv.Atoi(genPart)
	if err != nil {
		return 0
	}
	return gen
}

// revLess orders revision tokens: generation-major, then plain string
// comparison of the whole token as the tiebreak.
func revLess(a, b string) bool {
	ga, gb := Generation(a), Generation(b)
	if ga != gb {
		return ga < gb
	}
	return a < b
}

// branch is one edit line of a document: its leaf revision, the token
// history newest-first, and the leaf state.
type branch struct {
	Rev     string
	History []string
	Deleted bool
	Body    map[string]any
}

// contains reports whether rev appears anywhere in the branch history.
func (b *branch) contains(rev string) bool {
	for _, r := range b.History {
		if r == rev {
			return true
		}
	}
	return false
}

// extend returns the branch's successor: a new leaf revision derived from the
// current one with the given state.
func (b *branch) extend(body map[string]any, deleted bool) *branch {
	var parent string
	var parentHistory []string
	if b != nil {
		parent = b.Rev
		parentHistory = b.History
	}

	rev := NewRev(parent)
	history := make([]string, 0, len(parentHistory)+1)
	history = append(history, rev)
	history = append(history, parentHistory...)

	return &branch{Rev: rev, History: history, Deleted: deleted, Body: body}
}

// winner picks the current branch among branches: the deterministic maximum
// of the non-deleted leaves, or nil when every branch is a tombstone.
func winner(branches map[string]*branch) *branch {
	var best *branch
	for _, b := range branches {
		if b.Deleted {
			continue
		}
		if best == nil || revLess(best.Rev, b.Rev) {
			best = b
		}
	}
	return best
}

// conflictRevs lists the non-deleted leaves other than current, i.e. the
// competing revisions of a conflicted document.
func conflictRevs(branches map[string]*branch, current *branch) []string {
	var revs []string
	for _, b := range branches {
		if b.Deleted || b == current {
			continue
		}
		revs = append(revs, b.Rev)
	}
	// Deterministic order, strongest competitor first.
	for i := 1; i < len(revs); i++ {
		for j := i; j > 0 && revLess(revs[j-1], revs[j]); j-- {
			revs[j-1], revs[j] = revs[j], revs[j-1]
		}
	}
	return revs
}

// classify decides how an incoming replicated row relates to the local
// branches of the same document.
type replicaFate int

const (
	replicaKnown       replicaFate = iota // leaf already present
	replicaStale                          // incoming rev is an ancestor of a local branch
	replicaFastForward                    // incoming extends a local branch
	replicaFork                           // divergent: new conflict branch
)

func classify(branches map[string]*branch, row Row) (fate replicaFate, target *branch) {
	if b, ok := branches[row.Rev]; ok {
		return replicaKnown, b
	}
	for _, b := range branches {
		if b.contains(row.Rev) {
			return replicaStale, b
		}
	}
	for _, rev := range row.History {
		if b, ok := branches[rev]; ok {
			return replicaFastForward, b
		}
	}
	return replicaFork, nil
}
