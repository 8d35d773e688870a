package edit

import (
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Engine refines coarse replacement edits into minimal ones using the
// sergi/go-diff library, with a cache for identical input pairs.
type Engine struct {
	dmp   *diffmatchpatch.DiffMatchPatch
	cache sync.Map
}

type cacheKey struct {
	oldHash uint64
	newHash uint64
}

// NewEngine creates a new minimizing engine.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // favor accuracy over speed
	return &Engine{dmp: dmp}
}

// DefaultEngine is a shared engine for general use.
var DefaultEngine = NewEngine()

// Minimize splits each replacement edit into smaller edits so that
// unchanged characters inside the replaced range are left untouched.
// Insertions and deletions pass through unchanged. The result remains
// ordered and non-overlapping.
func (e *Engine) Minimize(source []byte, edits []Edit) []Edit {
	out := make([]Edit, 0, len(edits))
	for _, ed := range edits {
		if ed.Pos == ed.End || ed.Text == "" {
			out = append(out, ed)
			continue
		}
		old := string(source[ed.Pos:ed.End])
		if old == ed.Text {
			continue // nothing changes
		}
		out = append(out, e.refine(ed.Pos, old, ed.Text)...)
	}
	return out
}

// Minimize refines edits using the default engine.
func Minimize(source []byte, edits []Edit) []Edit {
	return DefaultEngine.Minimize(source, edits)
}

func (e *Engine) refine(base int, old, new string) []Edit {
	key := cacheKey{hash(old), hash(new)}
	var diffs []diffmatchpatch.Diff
	if cached, ok := e.cache.Load(key); ok {
		diffs = cached.([]diffmatchpatch.Diff)
	} else {
		diffs = e.dmp.DiffMain(old, new, false)
		diffs = e.dmp.DiffCleanupSemantic(diffs)
		e.cache.Store(key, diffs)
	}

	var out []Edit
	pos := base
	pendingDel := -1 // start of a pending deletion range
	delEnd := -1
	flush := func(insert string) {
		if pendingDel >= 0 {
			out = append(out, Edit{Pos: pendingDel, End: delEnd, Text: insert})
			pendingDel = -1
		} else if insert != "" {
			out = append(out, Edit{Pos: pos, End: pos, Text: insert})
		}
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush("")
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			if pendingDel < 0 {
				pendingDel = pos
			}
			pos += len(d.Text)
			delEnd = pos
		case diffmatchpatch.DiffInsert:
			flush(d.Text)
		}
	}
	flush("")
	return out
}

// ClearCache drops all cached diff results.
func (e *Engine) ClearCache() {
	e.cache = sync.Map{}
}

// hash computes the FNV-1a hash of a string for cache keying.
func hash(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
