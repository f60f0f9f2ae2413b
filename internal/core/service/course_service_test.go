package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository that counts every call.
// ---------------------------------------------------------------------------

type stubCourseRepo struct {
	courses map[int64]*domain.Course
	nextID  int64
	calls   int
	deleted []int64
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[int64]*domain.Course), nextID: 1}
}

func (r *stubCourseRepo) seed(c domain.Course) {
	clone := c
	r.courses[c.ID] = &clone
	if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
}

func (r *stubCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	r.calls++
	out := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id int64) (*domain.Course, error) {
	r.calls++
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) (*domain.Course, error) {
	r.calls++
	clone := *c
	clone.ID = r.nextID
	r.nextID++
	r.courses[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCourseRepo) Update(_ context.Context, c *domain.Course) (*domain.Course, error) {
	r.calls++
	if _, ok := r.courses[c.ID]; !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	r.courses[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	r.deleted = append(r.deleted, id)
	return nil
}

var (
	regularCaller = domain.Identity{ID: "u-1", Username: "alice", Role: domain.RoleRegular}
	adminCaller   = domain.Identity{ID: "u-2", Username: "root", Role: domain.RoleAdmin}
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCourseService_Create_RequiresIdentity(t *testing.T) {
	repo := newStubCourseRepo()
	svc := NewCourseService(repo, zerolog.Nop())
	in := ports.CreateCourseInput{Title: "Go Basics", DurationHours: 10}

	if _, err := svc.CreateCourse(context.Background(), domain.Anonymous, in); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("denied create touched the repository %d times", repo.calls)
	}

	course, err := svc.CreateCourse(context.Background(), regularCaller, in)
	if err != nil {
		t.Fatalf("create with regular identity failed: %v", err)
	}
	if course.ID == 0 || course.Title != "Go Basics" || course.CreatedBy != regularCaller.ID {
		t.Fatalf("unexpected course: %+v", course)
	}
	if course.CreatedAt.IsZero() || !course.CreatedAt.Equal(course.UpdatedAt) {
		t.Fatalf("expected timestamps to be set: %+v", course)
	}
}

func TestCourseService_Create_Validation(t *testing.T) {
	repo := newStubCourseRepo()
	svc := NewCourseService(repo, zerolog.Nop())

	for _, in := range []ports.CreateCourseInput{
		{Title: ""},
		{Title: "   "},
		{Title: "Go", DurationHours: -1},
	} {
		if _, err := svc.CreateCourse(context.Background(), regularCaller, in); !errors.Is(err, domain.ErrInvalidCourse) {
			t.Fatalf("input %+v: expected ErrInvalidCourse, got %v", in, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("invalid course reached the repository")
	}
}

func TestCourseService_Reads_AllowAnonymous(t *testing.T) {
	repo := newStubCourseRepo()
	repo.seed(domain.Course{ID: 7, Title: "Databases"})
	svc := NewCourseService(repo, zerolog.Nop())

	list, err := svc.ListCourses(context.Background(), domain.Anonymous)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListCourses: %v %v", list, err)
	}

	c, err := svc.GetCourse(context.Background(), domain.Anonymous, 7)
	if err != nil || c.Title != "Databases" {
		t.Fatalf("GetCourse: %v %v", c, err)
	}

	if _, err := svc.GetCourse(context.Background(), domain.Anonymous, 8); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_Update(t *testing.T) {
	repo := newStubCourseRepo()
	repo.seed(domain.Course{ID: 1, Title: "Go", Instructor: "Rob", DurationHours: 4})
	svc := NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	patch := domain.CoursePatch{Title: strPtr("  Advanced Go "), DurationHours: intPtr(12)}

	if _, err := svc.UpdateCourse(ctx, domain.Anonymous, 1, patch); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("denied update touched the repository")
	}

	updated, err := svc.UpdateCourse(ctx, regularCaller, 1, patch)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Advanced Go" || updated.DurationHours != 12 || updated.Instructor != "Rob" {
		t.Fatalf("patch not applied correctly: %+v", updated)
	}

	if _, err := svc.UpdateCourse(ctx, adminCaller, 99, patch); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}

	if _, err := svc.UpdateCourse(ctx, adminCaller, 1, domain.CoursePatch{Title: strPtr("")}); !errors.Is(err, domain.ErrInvalidCourse) {
		t.Fatalf("expected ErrInvalidCourse, got %v", err)
	}
}

func TestCourseService_Delete_NotFoundForAdmin(t *testing.T) {
	repo := newStubCourseRepo()
	svc := NewCourseService(repo, zerolog.Nop())

	_, err := svc.DeleteCourse(context.Background(), adminCaller, 999)
	if !errors.Is(err, domain.ErrCourseNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("delete attempted for a missing course")
	}
}

func TestCourseService_Delete_ForbiddenForRegular(t *testing.T) {
	repo := newStubCourseRepo()
	repo.seed(domain.Course{ID: 1, Title: "Go"})
	svc := NewCourseService(repo, zerolog.Nop())

	_, err := svc.DeleteCourse(context.Background(), regularCaller, 1)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("denied delete touched the repository %d times", repo.calls)
	}

	if _, err := svc.DeleteCourse(context.Background(), domain.Anonymous, 1); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCourseService_Delete_ReturnsSnapshot(t *testing.T) {
	repo := newStubCourseRepo()
	repo.seed(domain.Course{ID: 3, Title: "Networks", Instructor: "Ada"})
	svc := NewCourseService(repo, zerolog.Nop())

	snap, err := svc.DeleteCourse(context.Background(), adminCaller, 3)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if snap.ID != 3 || snap.Title != "Networks" || snap.Instructor != "Ada" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if _, ok := repo.courses[3]; ok {
		t.Fatalf("course still stored after delete")
	}
}

// A role change in the store only takes effect once a new token is issued:
// the identity decoded from an older token keeps the role it was issued with.
func TestCourseService_RoleStalenessWindow(t *testing.T) {
	ctx := context.Background()
	users := newStubUserRepo()
	authSvc, tokens := newAuthSvc(t, users)
	courses := newStubCourseRepo()
	courses.seed(domain.Course{ID: 1, Title: "Go"})
	courseSvc := NewCourseService(courses, zerolog.Nop())

	if _, err := authSvc.Register(ctx, ports.RegisterInput{Username: "alice", Password: "pw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	first, err := authSvc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	users.users["alice"].Role = domain.RoleAdmin

	stale, err := tokens.Verify(first.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if stale.Role != domain.RoleRegular {
		t.Fatalf("expected token to keep regular role, got %s", stale.Role)
	}
	if _, err := courseSvc.DeleteCourse(ctx, stale, 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden with stale token, got %v", err)
	}

	second, err := authSvc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("re-login: %v", err)
	}
	fresh, err := tokens.Verify(second.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := courseSvc.DeleteCourse(ctx, fresh, 1); err != nil {
		t.Fatalf("expected delete to succeed after re-issuance, got %v", err)
	}
}
