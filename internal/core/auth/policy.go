package auth

import (
	"fmt"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

type rule func(domain.Identity) error

// rules is the complete access table. Operations missing from it are denied.
var rules = map[domain.Operation]rule{
	domain.OpListCourses:  allowAll,
	domain.OpGetCourse:    allowAll,
	domain.OpListUsers:    allowAll,
	domain.OpGetUser:      allowAll,
	domain.OpRegister:     allowAll,
	domain.OpLogin:        allowAll,
	domain.OpCreateCourse: requireIdentity,
	domain.OpUpdateCourse: requireIdentity,
	domain.OpReadProfile:  requireIdentity,
	domain.OpDeleteCourse: requireRole(domain.RoleAdmin),
}

// Authorize decides whether id may perform op. A denial wraps
// domain.ErrUnauthorized when no identity was presented and
// domain.ErrForbidden when the identity lacks the required role.
func Authorize(id domain.Identity, op domain.Operation) error {
	r, ok := rules[op]
	if !ok {
		return fmt.Errorf("%s: %w: unknown operation", op, domain.ErrForbidden)
	}
	if err := r(id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func allowAll(domain.Identity) error {
	return nil
}

func requireIdentity(id domain.Identity) error {
	if id.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireRole(role domain.Role) rule {
	return func(id domain.Identity) error {
		if err := requireIdentity(id); err != nil {
			return err
		}
		if id.Role != role {
			return domain.ErrForbidden
		}
		return nil
	}
}
