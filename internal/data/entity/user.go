package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Phone        *string  `db:"phone"`
	Username     *string  `db:"username"`
	Name         *string  `db:"name"`
	Role         UserRole `db:"role"`
	PasswordHash *string  `db:"password_hash"`
	IsActive     bool     `db:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
