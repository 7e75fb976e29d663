package user

import "time"

// Roles a user can sign up with.
const (
	RoleClient   = "CLIENT"
	RoleProvider = "PROVIDER"
)

// User is an account on the platform. AverageRating and ReviewCount are
// maintained by the rating aggregator and never written anywhere else.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	ProfileImage  string    `json:"profileImage,omitempty"`
	Role          string    `json:"role"`
	Bio           string    `json:"bio,omitempty"`
	IsVerified    bool      `json:"isVerified"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	Specialties   []string  `json:"specialties"`
	HourlyRate    int64     `json:"hourlyRate,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary is the slim shape embedded in mission and payment responses.
type Summary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	ProfileImage  string  `json:"profileImage,omitempty"`
	AverageRating float64 `json:"averageRating"`
}

// Summary projects the embeddable subset of a user.
func (u User) Summary() Summary {
	return Summary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ProfileImage:  u.ProfileImage,
		AverageRating: u.AverageRating,
	}
}

// ProfileUpdate holds the optional fields of a profile patch. Nil means
// leave the current value alone.
type ProfileUpdate struct {
	Name         *string   `json:"name"`
	Phone        *string   `json:"phone"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profileImage"`
	Specialties  *[]string `json:"specialties"`
	HourlyRate   *int64    `json:"hourlyRate"`
	Location     *string   `json:"location"`
}

// ProviderFilter narrows the provider listing.
type ProviderFilter struct {
	Specialty string
	MinRating float64
	Limit     int
	Offset    int
}
