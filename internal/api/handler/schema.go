package handler

type registerRequest struct {
	Name         string `json:"name"         validate:"required,min=2,max=72"`
	EmailAddress string `json:"emailAddress" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber"  validate:"required,min=4,max=20"`
	Password     string `json:"password"     validate:"required,min=8,max=24"`
	Consent      bool   `json:"consent"      validate:"required,eq=true"`
}

type loginRequest struct {
	EmailAddress string `json:"emailAddress" validate:"required,email"`
	Password     string `json:"password"     validate:"required,min=8,max=24"`
}

type forgotPasswordRequest struct {
	EmailAddress string `json:"emailAddress" validate:"required,email"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=24"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword"        validate:"required,min=8,max=24"`
	NewPassword        string `json:"newPassword"        validate:"required,min=8,max=24"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,min=8,max=24,eqfield=NewPassword"`
}
