package hubsdk

import (
	"errors"

	"github.com/aussiebroadwan/campaignhub/pkg/idx"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Roles accepted on the wire.
const (
	RoleAdmin        = "admin"
	RoleBrandManager = "brand_manager"
	RoleInfluencer   = "influencer"
	RoleUser         = "user"
)

var errNotULID = errors.New("must be a valid id")

// isID accepts empty values so it can be combined with Required.
func isID(value interface{}) error {
	s, _ := value.(string)
	if s == "" || idx.Valid(s) {
		return nil
	}
	return errNotULID
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Role, validation.In(RoleUser, RoleInfluencer)),
	)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (r ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required,
			validation.In(RoleAdmin, RoleBrandManager, RoleInfluencer, RoleUser)),
	)
}

func (r CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Budget, validation.Min(int64(0))),
	)
}

func (r UpdateCampaignRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.Budget == nil {
		return errors.New("at least one field is required")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Budget, validation.Min(int64(0))),
	)
}

func (r InviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InfluencerID, validation.Required, validation.By(isID)),
		validation.Field(&r.Message, validation.Length(0, 1000)),
	)
}

func (r CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Required, validation.Length(1, 10000)),
		validation.Field(&r.CampaignID, validation.By(isID)),
	)
}

// FieldErrors flattens a validation error into field -> message. Errors that
// are not per-field land under "_".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for field, fe := range verrs {
		out[field] = fe.Error()
	}
	return out
}
