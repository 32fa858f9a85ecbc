package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

func skill(id string) types.GraphSkill {
	return types.GraphSkill{ID: id, Name: id, Category: "programming", Level: 1}
}

func course(id string, difficulty int) types.GraphCourse {
	return types.GraphCourse{ID: id, Title: id, Category: "programming", Duration: 120, Difficulty: difficulty}
}

func chainBuild() Build {
	// c3 -> c2 -> c1, with a skill per course.
	return Build{
		Skills:  []types.GraphSkill{skill("s1"), skill("s2"), skill("s3")},
		Courses: []types.GraphCourse{course("c1", 1), course("c2", 2), course("c3", 3)},
		Teaches: []Edge{
			{From: "c1", To: "s1", Level: 2},
			{From: "c2", To: "s2"},
			{From: "c3", To: "s3"},
		},
		Requires: []Edge{
			{From: "c2", To: "c1"},
			{From: "c3", To: "c2"},
		},
		BuildsOn: []Edge{
			{From: "s2", To: "s1"},
		},
	}
}

func TestMemoryStoreRebuildAndReads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))

	if err := store.Rebuild(ctx, chainBuild()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	skills, err := store.Skills(ctx)
	if err != nil {
		t.Fatalf("skills: %v", err)
	}
	if got := ids(skills); !reflect.DeepEqual(got, []string{"s1", "s2", "s3"}) {
		t.Fatalf("skills out of build order: %v", got)
	}

	courses, err := store.Courses(ctx)
	if err != nil {
		t.Fatalf("courses: %v", err)
	}
	if len(courses) != 3 || courses[0].ID != "c1" || courses[2].ID != "c3" {
		t.Fatalf("courses out of build order: %+v", courses)
	}

	c, err := store.Course(ctx, "c2")
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if c == nil || c.Difficulty != 2 {
		t.Fatalf("course c2 = %+v", c)
	}

	taught, err := store.TaughtSkills(ctx, "c1")
	if err != nil {
		t.Fatalf("taught skills: %v", err)
	}
	if len(taught) != 1 || taught[0].ID != "s1" {
		t.Fatalf("taught skills of c1 = %+v", taught)
	}

	prereqs, err := store.Prerequisites(ctx, "c3")
	if err != nil {
		t.Fatalf("prerequisites: %v", err)
	}
	if !reflect.DeepEqual(prereqs, []string{"c2"}) {
		t.Fatalf("prerequisites of c3 = %v", prereqs)
	}

	teaching, err := store.CoursesTeaching(ctx, "s2")
	if err != nil {
		t.Fatalf("courses teaching: %v", err)
	}
	if len(teaching) != 1 || teaching[0].ID != "c2" {
		t.Fatalf("courses teaching s2 = %+v", teaching)
	}

	skillPre, err := store.SkillPrerequisites(ctx, "s2")
	if err != nil {
		t.Fatalf("skill prerequisites: %v", err)
	}
	if len(skillPre) != 1 || skillPre[0].ID != "s1" {
		t.Fatalf("skill prerequisites of s2 = %+v", skillPre)
	}
}

func TestMemoryStoreUnknownLookups(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))
	if err := store.Rebuild(ctx, chainBuild()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	c, err := store.Course(ctx, "nope")
	if err != nil || c != nil {
		t.Fatalf("unknown course: got %+v, %v", c, err)
	}
	taught, err := store.TaughtSkills(ctx, "nope")
	if err != nil || len(taught) != 0 {
		t.Fatalf("unknown course skills: got %+v, %v", taught, err)
	}
	closure, err := store.PrerequisiteClosure(ctx, "nope")
	if err != nil || len(closure) != 0 {
		t.Fatalf("unknown course closure: got %v, %v", closure, err)
	}
}

func TestMemoryStoreClosureOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))

	// target requires b and a directly; b requires z; a requires z too, so z
	// must appear once at its shortest hop distance.
	b := Build{
		Courses: []types.GraphCourse{
			course("target", 3), course("b", 2), course("a", 2), course("z", 1),
		},
		Requires: []Edge{
			{From: "target", To: "b"},
			{From: "target", To: "a"},
			{From: "b", To: "z"},
			{From: "a", To: "z"},
		},
	}
	if err := store.Rebuild(ctx, b); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	closure, err := store.PrerequisiteClosure(ctx, "target")
	if err != nil {
		t.Fatalf("closure: %v", err)
	}
	want := []string{"a", "b", "z"}
	if !reflect.DeepEqual(closure, want) {
		t.Fatalf("closure = %v, want %v", closure, want)
	}
}

func TestMemoryStoreClosureTerminatesOnCycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))

	b := Build{
		Courses: []types.GraphCourse{course("a", 1), course("b", 1)},
		Requires: []Edge{
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}
	if err := store.Rebuild(ctx, b); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	closure, err := store.PrerequisiteClosure(ctx, "a")
	if err != nil {
		t.Fatalf("closure: %v", err)
	}
	if !reflect.DeepEqual(closure, []string{"b"}) {
		t.Fatalf("cyclic closure = %v", closure)
	}
}

func TestMemoryStoreClosureDepthBound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))

	// Chain longer than MaxTraversalDepth; only the first five hops surface.
	var b Build
	for i := 0; i <= MaxTraversalDepth+2; i++ {
		b.Courses = append(b.Courses, course(fmt.Sprintf("c%02d", i), 1))
	}
	for i := 0; i < MaxTraversalDepth+2; i++ {
		b.Requires = append(b.Requires, Edge{
			From: fmt.Sprintf("c%02d", i),
			To:   fmt.Sprintf("c%02d", i+1),
		})
	}
	if err := store.Rebuild(ctx, b); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	closure, err := store.PrerequisiteClosure(ctx, "c00")
	if err != nil {
		t.Fatalf("closure: %v", err)
	}
	if len(closure) != MaxTraversalDepth {
		t.Fatalf("closure length = %d, want %d (%v)", len(closure), MaxTraversalDepth, closure)
	}
}

func TestMemoryStoreRejectsDanglingEdges(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		build Build
	}{
		{
			name: "teaches unknown skill",
			build: Build{
				Courses: []types.GraphCourse{course("c1", 1)},
				Teaches: []Edge{{From: "c1", To: "ghost"}},
			},
		},
		{
			name: "requires unknown course",
			build: Build{
				Courses:  []types.GraphCourse{course("c1", 1)},
				Requires: []Edge{{From: "c1", To: "ghost"}},
			},
		},
		{
			name: "builds_on unknown skill",
			build: Build{
				Skills:   []types.GraphSkill{skill("s1")},
				BuildsOn: []Edge{{From: "s1", To: "ghost"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore(testLogger(t))
			if err := store.Rebuild(ctx, chainBuild()); err != nil {
				t.Fatalf("seed rebuild: %v", err)
			}

			err := store.Rebuild(ctx, tc.build)
			if !errors.Is(err, ErrMissingEndpoint) {
				t.Fatalf("rebuild error = %v, want ErrMissingEndpoint", err)
			}

			// Failed rebuild leaves the previous graph serving.
			courses, err := store.Courses(ctx)
			if err != nil {
				t.Fatalf("courses: %v", err)
			}
			if len(courses) != 3 {
				t.Fatalf("previous graph lost after failed rebuild: %+v", courses)
			}
		})
	}
}

func TestMemoryStoreConcurrentReadsDuringRebuilds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testLogger(t))
	if err := store.Rebuild(ctx, chainBuild()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	singleton := Build{
		Skills:  []types.GraphSkill{skill("s1")},
		Courses: []types.GraphCourse{course("c1", 1)},
		Teaches: []Edge{{From: "c1", To: "s1"}},
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					b := chainBuild()
					if j%2 == 0 {
						b = singleton
					}
					if err := store.Rebuild(ctx, b); err != nil {
						errs <- err
						return
					}
					continue
				}
				courses, err := store.Courses(ctx)
				if err != nil {
					errs <- err
					return
				}
				// Either build is fine; a torn snapshot is not.
				if len(courses) != 1 && len(courses) != 3 {
					errs <- fmt.Errorf("torn snapshot: %d courses", len(courses))
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func ids(skills []types.GraphSkill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.ID)
	}
	return out
}
