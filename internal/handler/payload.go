package handler

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName"  validate:"required,min=2,max=64"`
	Username  string `json:"username"  validate:"required,min=3,max=32,alphanum"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,strongpassword"`
	UserType  string `json:"userType"  validate:"required,oneof=buyer seller"`
}

// loginRequest leaves the password untagged on purpose: an empty password is
// a business-rule failure evaluated after the account lookup, not a schema
// failure.
type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"`
}

type googleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

type twoFactorVerifyRequest struct {
	Code string `json:"code" validate:"required"`
}

type resetPasswordEmailRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// resetPasswordRequest validates strength only; the confirmation match is
// checked downstream with its own (historically 404-coded) failure.
type resetPasswordRequest struct {
	Password        string `json:"password"        validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"     validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
