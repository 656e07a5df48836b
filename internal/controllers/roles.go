package controllers

var allowedRoles = map[string]struct{}{
	"admin":  {},
	"asesor": {},
	"asesi":  {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}
