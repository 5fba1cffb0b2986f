package validators

import (
	"brightnest-properties/internal/models"
)

type PropertyValidator interface {
	ValidateCreate(input *models.CreatePropertyInput) error
	ValidateUpdate(patch *models.UpdatePropertyInput) error
}

type PhotoValidator interface {
	ValidateCreate(input *models.CreatePhotoInput) error
}

type UserValidator interface {
	ValidateRegister(user *models.User) error
	ValidateLogin(email, password string) error
}
