package dto

type CreateTenantRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Slug         string  `json:"slug" validate:"required,max=100,lowercase,excludesall= "`
	Domain       *string `json:"domain" validate:"omitempty,fqdn"`
	PlanType     string  `json:"plan_type" validate:"omitempty,oneof=free starter pro enterprise"`
	MaxEvents    *int    `json:"max_events" validate:"omitempty,gt=0"`
	MaxUsers     *int    `json:"max_users" validate:"omitempty,gt=0"`
	MaxAttendees *int    `json:"max_attendees" validate:"omitempty,gt=0"`
	AdminEmail   string  `json:"admin_email" validate:"required,email"`
	AdminName    string  `json:"admin_name" validate:"required,max=200"`
}

type UpdateTenantRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Domain         *string `json:"domain" validate:"omitempty,fqdn"`
	Status         *string `json:"status" validate:"omitempty,oneof=ACTIVE SUSPENDED INACTIVE"`
	PlanType       *string `json:"plan_type" validate:"omitempty,oneof=free starter pro enterprise"`
	MaxEvents      *int    `json:"max_events" validate:"omitempty,gt=0"`
	MaxUsers       *int    `json:"max_users" validate:"omitempty,gt=0"`
	MaxAttendees   *int    `json:"max_attendees" validate:"omitempty,gt=0"`
	Logo           *string `json:"logo" validate:"omitempty,url"`
	PrimaryColor   *string `json:"primary_color" validate:"omitempty,max=20"`
	SecondaryColor *string `json:"secondary_color" validate:"omitempty,max=20"`
}

// InviteUserRequest carries the password directly; there is no token-based
// invitation email flow.
type InviteUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=TENANT_ADMIN TENANT_USER"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Role      *string `json:"role" validate:"omitempty,oneof=TENANT_ADMIN TENANT_USER"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
}

type UpdateTenantSettingsRequest struct {
	AllowPublicEvents  *bool   `json:"allow_public_events"`
	RequireApproval    *bool   `json:"require_approval"`
	EmailNotifications *bool   `json:"email_notifications"`
	CustomDomain       *string `json:"custom_domain" validate:"omitempty,fqdn"`
}
