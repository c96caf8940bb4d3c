// Package hierarchy maintains an in-memory model of the ownership
// graph (course → discipline/project → team/sprint → member) so that
// authorization and cascade decisions are local: no network round trip
// is needed to answer "does X belong, transitively, to course C".
package hierarchy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// ErrConstraintViolation is returned by the referential guard when a
// child references a parent the index does not know. The caller must
// not retry the same request unmodified.
var ErrConstraintViolation = errors.New("referential constraint violation")

// Kind identifies an entity type in the ownership graph.
type Kind string

const (
	KindCourse     Kind = "course"
	KindDiscipline Kind = "discipline"
	KindProject    Kind = "project"
	KindTeam       Kind = "team"
	KindMember     Kind = "member"
	KindSprint     Kind = "sprint"
)

// parentKind maps each child kind to its expected parent kind.
// Projects may alternatively hang off a discipline; see Observe.
var parentKind = map[Kind]Kind{
	KindDiscipline: KindCourse,
	KindProject:    KindCourse,
	KindTeam:       KindProject,
	KindSprint:     KindProject,
	KindMember:     KindTeam,
}

// Ref identifies one entity in the graph.
type Ref struct {
	Kind Kind
	ID   int64
}

func (r Ref) String() string { return fmt.Sprintf("%s/%d", r.Kind, r.ID) }

// IsZero reports whether the ref is unset.
func (r Ref) IsZero() bool { return r.Kind == "" && r.ID == 0 }

// Entity is a node observed from a backend fetch: the entity itself
// plus its parent pointer (zero for courses).
type Entity struct {
	Ref    Ref
	Parent Ref
}

// Enrollment is the single-valued course association of one user.
type Enrollment struct {
	UserID   int64
	CourseID int64
	Role     sdk.Role
}

type entry struct {
	parent Ref
	seq    uint64
}

// Index is the hierarchy index. All methods are safe for concurrent
// use. Entries carry the fetch sequence they were observed under;
// deletes leave tombstones so a slow fetch response that predates a
// confirmed delete can never resurrect the entity.
type Index struct {
	mu         sync.RWMutex
	seq        uint64
	entries    map[Ref]entry
	children   map[Ref]map[Ref]struct{}
	tombstones map[Ref]uint64
	enrollment map[int64]Enrollment
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		entries:    make(map[Ref]entry),
		children:   make(map[Ref]map[Ref]struct{}),
		tombstones: make(map[Ref]uint64),
		enrollment: make(map[int64]Enrollment),
	}
}

// Begin allocates a fetch sequence number. Call it before issuing the
// backend request whose response will be passed to Observe, so that
// deletes confirmed while the fetch was in flight order after it.
func (x *Index) Begin() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seq++
	return x.seq
}

// Observe merges entities from a fetch response tagged with the
// sequence Begin returned for that fetch. Merging is last-writer-wins
// at the leaf: an entity already recorded under a newer sequence is
// kept, and an entity deleted at or after seq stays deleted.
func (x *Index) Observe(seq uint64, entities ...Entity) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, e := range entities {
		if e.Ref.IsZero() {
			continue
		}
		if ts, ok := x.tombstones[e.Ref]; ok && ts >= seq {
			continue
		}
		if cur, ok := x.entries[e.Ref]; ok {
			if cur.seq > seq {
				continue
			}
			x.unlink(e.Ref, cur.parent)
		}
		x.entries[e.Ref] = entry{parent: e.Parent, seq: seq}
		x.link(e.Ref, e.Parent)
	}
}

// Drop removes the entity and everything transitively owned by it,
// recording tombstones so no stale fetch can bring any of them back.
// Call it after the backend confirmed the delete.
func (x *Index) Drop(ref Ref) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seq++
	x.drop(ref, x.seq)
}

func (x *Index) drop(ref Ref, seq uint64) {
	for child := range x.children[ref] {
		x.drop(child, seq)
	}
	delete(x.children, ref)
	if cur, ok := x.entries[ref]; ok {
		x.unlink(ref, cur.parent)
		delete(x.entries, ref)
	}
	x.tombstones[ref] = seq
}

// Contains reports whether the entity is currently indexed.
func (x *Index) Contains(ref Ref) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.entries[ref]
	return ok
}

// GuardCreate is the referential guard: it refuses, locally and before
// any backend call, a create whose parent reference is not indexed.
// This is a safety check against orphaned-reference requests, not a
// substitute for the backend's own constraint enforcement.
func (x *Index) GuardCreate(child Kind, parent Ref) error {
	want, ok := parentKind[child]
	if !ok {
		return fmt.Errorf("%w: %s cannot have a parent", ErrConstraintViolation, child)
	}
	// Projects may be scoped under a discipline instead of directly
	// under their course.
	if parent.Kind != want && !(child == KindProject && parent.Kind == KindDiscipline) {
		return fmt.Errorf("%w: %s cannot belong to %s", ErrConstraintViolation, child, parent.Kind)
	}
	if !x.Contains(parent) {
		return fmt.Errorf("%w: unknown parent %s", ErrConstraintViolation, parent)
	}
	return nil
}

// CourseOf walks parent pointers up to the owning course. It reports
// false when the chain is incomplete (entity unknown, or an ancestor
// not yet fetched).
func (x *Index) CourseOf(ref Ref) (int64, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for !ref.IsZero() {
		if ref.Kind == KindCourse {
			return ref.ID, true
		}
		cur, ok := x.entries[ref]
		if !ok {
			return 0, false
		}
		ref = cur.parent
	}
	return 0, false
}

// Enroll records the user's course association, replacing any prior
// one: the remove and the add are applied under one lock, so callers
// never observe two enrollments for the same user.
func (x *Index) Enroll(userID, courseID int64, role sdk.Role) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.enrollment[userID] = Enrollment{UserID: userID, CourseID: courseID, Role: role}
}

// Unenroll removes the user's course association, if any.
func (x *Index) Unenroll(userID int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.enrollment, userID)
}

// EnrollmentOf returns the user's current enrollment.
func (x *Index) EnrollmentOf(userID int64) (Enrollment, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.enrollment[userID]
	return e, ok
}

// Snapshot returns a stable copy of the index contents for
// persistence. Tombstones are not exported: a snapshot is taken after
// deletes have been applied, and the high-water sequence guarantees
// ordering survives a reload.
func (x *Index) Snapshot() ([]Entity, []Enrollment, uint64) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ents := make([]Entity, 0, len(x.entries))
	for ref, e := range x.entries {
		ents = append(ents, Entity{Ref: ref, Parent: e.parent})
	}
	enrs := make([]Enrollment, 0, len(x.enrollment))
	for _, e := range x.enrollment {
		enrs = append(enrs, e)
	}
	return ents, enrs, x.seq
}

// Restore rebuilds the index from a snapshot. The high-water sequence
// is carried over so sequences allocated after a reload still order
// after everything the snapshot saw.
func (x *Index) Restore(entities []Entity, enrollments []Enrollment, seq uint64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = make(map[Ref]entry, len(entities))
	x.children = make(map[Ref]map[Ref]struct{})
	x.tombstones = make(map[Ref]uint64)
	x.enrollment = make(map[int64]Enrollment, len(enrollments))
	if seq > x.seq {
		x.seq = seq
	}
	for _, e := range entities {
		x.entries[e.Ref] = entry{parent: e.Parent, seq: seq}
		x.link(e.Ref, e.Parent)
	}
	for _, e := range enrollments {
		x.enrollment[e.UserID] = e
	}
}

// link/unlink maintain the child sets. Callers hold the write lock.

func (x *Index) link(ref, parent Ref) {
	if parent.IsZero() {
		return
	}
	set, ok := x.children[parent]
	if !ok {
		set = make(map[Ref]struct{})
		x.children[parent] = set
	}
	set[ref] = struct{}{}
}

func (x *Index) unlink(ref, parent Ref) {
	if parent.IsZero() {
		return
	}
	if set, ok := x.children[parent]; ok {
		delete(set, ref)
		if len(set) == 0 {
			delete(x.children, parent)
		}
	}
}
