package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
)

// User вызывающий пользователь. Регистрация и аутентификация вне этого сервиса,
// здесь нужна только роль для проверки окна продаж.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsStaff сотрудник продаёт билеты по более позднему окну
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
