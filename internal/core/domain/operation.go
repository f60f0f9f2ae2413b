package domain

// Operation names an action subject to the access policy.
type Operation string

const (
	OpListCourses  Operation = "list_courses"
	OpGetCourse    Operation = "get_course"
	OpCreateCourse Operation = "create_course"
	OpUpdateCourse Operation = "update_course"
	OpDeleteCourse Operation = "delete_course"
	OpListUsers    Operation = "list_users"
	OpGetUser      Operation = "get_user"
	OpRegister     Operation = "register"
	OpLogin        Operation = "login"
	OpReadProfile  Operation = "read_profile"
)
