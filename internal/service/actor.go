package service

// Actor roles resolved from the session token.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   uint
	Role string
}

// IsTeacher reports whether the actor carries the teacher role.
func (a Actor) IsTeacher() bool {
	return a.Role == RoleTeacher
}

// IsStudent reports whether the actor carries the student role.
func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}
