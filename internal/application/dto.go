package application

import "user-management-api/internal/domain/entity"

// UserDto is the read projection used for bulk listings. It excludes the
// role and any credential material.
type UserDto struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
}

// UserAllFieldsDto is the full projection returned on create and detail
// reads. The password hash never leaves the service through it.
type UserAllFieldsDto struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Country   string      `json:"country"`
	Role      entity.Role `json:"role"`
}

// CreateUserInput carries the fields accepted on the add path. Field format
// validation happens at the HTTP boundary; the plain password is hashed by
// the service before it reaches the repository.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Country   string
	Role      entity.Role
	Password  string
}

// UserPatch is the partial-update projection: a nil field means "leave
// unchanged". The merge is explicit, see Apply.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Country   *string
}

// Apply overwrites the entity fields for which the patch carries a value.
func (p UserPatch) Apply(u *entity.User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Country != nil {
		u.Country = *p.Country
	}
}

func toUserDto(u *entity.User) UserDto {
	return UserDto{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Country:   u.Country,
	}
}

func toAllFieldsDto(u *entity.User) *UserAllFieldsDto {
	return &UserAllFieldsDto{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Country:   u.Country,
		Role:      u.Role,
	}
}
